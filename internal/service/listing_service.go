package service

import (
	"fmt"
	"strings"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"
)

// ListingService runs the peer-to-peer pass/gom board: customer submissions
// moderated by admins before they show on the storefront.
type ListingService struct {
	listingRepo repository.ListingRepository
}

// NewListingService creates the listing service.
func NewListingService(listingRepo repository.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

// SubmitListingInput is the public submission form.
type SubmitListingInput struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Category      string        `json:"category"`
	Subcategory   string        `json:"subcategory"`
	Tag           string        `json:"tag"`
	Price         *models.Money `json:"price"`
	Variants      models.JSON   `json:"variants"`
	Images        []string      `json:"images"`
	SellerName    string        `json:"seller_name"`
	SellerPhone   string        `json:"seller_phone"`
	SellerSocial  string        `json:"seller_social"`
	SellerBank    string        `json:"seller_bank"`
	SellerAccount string        `json:"seller_account"`
}

// Submit stores a new listing in pending state with the next PG code.
func (s *ListingService) Submit(input SubmitListingInput) (*models.UserListing, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.SellerName) == "" {
		return nil, ErrInvalidListing
	}
	if input.Tag != constants.ListingTagPass && input.Tag != constants.ListingTagGom {
		return nil, ErrInvalidListing
	}
	count, err := s.listingRepo.Count()
	if err != nil {
		return nil, err
	}
	listing := &models.UserListing{
		Code:          fmt.Sprintf("PG%d", count+1),
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		Category:      strings.TrimSpace(input.Category),
		Subcategory:   strings.TrimSpace(input.Subcategory),
		Tag:           input.Tag,
		Price:         input.Price,
		Variants:      input.Variants,
		Images:        models.StringArray(input.Images),
		SellerName:    strings.TrimSpace(input.SellerName),
		SellerPhone:   strings.TrimSpace(input.SellerPhone),
		SellerSocial:  strings.TrimSpace(input.SellerSocial),
		SellerBank:    strings.TrimSpace(input.SellerBank),
		SellerAccount: strings.TrimSpace(input.SellerAccount),
		Status:        constants.ListingStatusPending,
	}
	if err := s.listingRepo.Create(listing); err != nil {
		return nil, err
	}
	logger.Infow("listing_submitted", "code", listing.Code, "tag", listing.Tag)
	return listing, nil
}

// PublicList returns approved listings for the storefront.
func (s *ListingService) PublicList(filter repository.ListingListFilter) ([]models.UserListing, int64, error) {
	filter.Status = constants.ListingStatusApproved
	return s.listingRepo.List(filter)
}

// PublicGet returns one approved or sold listing by its PG code.
func (s *ListingService) PublicGet(code string) (*models.UserListing, error) {
	listing, err := s.listingRepo.GetByCode(strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.Status != constants.ListingStatusApproved && listing.Status != constants.ListingStatusSold {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// List returns listings for the admin table, any status.
func (s *ListingService) List(filter repository.ListingListFilter) ([]models.UserListing, int64, error) {
	return s.listingRepo.List(filter)
}

// Get returns one listing by id.
func (s *ListingService) Get(id uint) (*models.UserListing, error) {
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

var allowedListingTransitions = map[string]map[string]bool{
	constants.ListingStatusPending: {
		constants.ListingStatusApproved: true,
		constants.ListingStatusRejected: true,
	},
	constants.ListingStatusApproved: {
		constants.ListingStatusSold:     true,
		constants.ListingStatusRejected: true,
	},
}

// Moderate moves a listing between statuses.
func (s *ListingService) Moderate(id uint, status, note string) (*models.UserListing, error) {
	listing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !allowedListingTransitions[listing.Status][status] {
		return nil, ErrInvalidTransition
	}
	updates := map[string]interface{}{"status": status}
	if strings.TrimSpace(note) != "" {
		updates["admin_note"] = strings.TrimSpace(note)
	}
	if err := s.listingRepo.UpdateFields(id, updates); err != nil {
		return nil, err
	}
	logger.Infow("listing_moderated", "code", listing.Code, "from", listing.Status, "to", status)
	return s.Get(id)
}

// Update rewrites the editable listing fields.
func (s *ListingService) Update(listing *models.UserListing) error {
	existing, err := s.Get(listing.ID)
	if err != nil {
		return err
	}
	listing.Code = existing.Code
	listing.Status = existing.Status
	return s.listingRepo.Update(listing)
}

// Delete soft deletes a listing.
func (s *ListingService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.listingRepo.Delete(id)
}
