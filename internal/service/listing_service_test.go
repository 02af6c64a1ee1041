package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupListingServiceTest(t *testing.T) (*ListingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:listing_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.UserListing{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewListingService(repository.NewListingRepository(db)), db
}

func TestListingSubmitAssignsSequentialCodes(t *testing.T) {
	svc, _ := setupListingServiceTest(t)

	first, err := svc.Submit(SubmitListingInput{
		Name:       "Pass áo thun Purin size M",
		Tag:        constants.ListingTagPass,
		SellerName: "Ngọc",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if first.Code != "PG1" {
		t.Fatalf("expected PG1, got %s", first.Code)
	}
	if first.Status != constants.ListingStatusPending {
		t.Fatalf("expected pending, got %s", first.Status)
	}

	second, err := svc.Submit(SubmitListingInput{
		Name:       "Gom móc khóa Purin",
		Tag:        constants.ListingTagGom,
		SellerName: "Hà",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if second.Code != "PG2" {
		t.Fatalf("expected PG2, got %s", second.Code)
	}
}

func TestListingSubmitValidatesInput(t *testing.T) {
	svc, _ := setupListingServiceTest(t)

	cases := []SubmitListingInput{
		{Name: "", Tag: constants.ListingTagPass, SellerName: "Ngọc"},
		{Name: "Pass áo", Tag: constants.ListingTagPass, SellerName: ""},
		{Name: "Pass áo", Tag: "Bán", SellerName: "Ngọc"},
	}
	for i, input := range cases {
		if _, err := svc.Submit(input); !errors.Is(err, ErrInvalidListing) {
			t.Fatalf("case %d: expected ErrInvalidListing, got %v", i, err)
		}
	}
}

func TestListingPublicViewOnlyApprovedOrSold(t *testing.T) {
	svc, _ := setupListingServiceTest(t)
	listing, err := svc.Submit(SubmitListingInput{
		Name:       "Pass áo thun",
		Tag:        constants.ListingTagPass,
		SellerName: "Ngọc",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := svc.PublicGet(listing.Code); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("pending listing must be hidden, got %v", err)
	}

	if _, err := svc.Moderate(listing.ID, constants.ListingStatusApproved, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	visible, err := svc.PublicGet(listing.Code)
	if err != nil {
		t.Fatalf("public get failed: %v", err)
	}
	if visible.ID != listing.ID {
		t.Fatalf("unexpected listing: %d", visible.ID)
	}

	if _, err := svc.Moderate(listing.ID, constants.ListingStatusSold, ""); err != nil {
		t.Fatalf("mark sold failed: %v", err)
	}
	if _, err := svc.PublicGet(listing.Code); err != nil {
		t.Fatalf("sold listing stays visible, got %v", err)
	}

	rows, total, err := svc.PublicList(repository.ListingListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("public list failed: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Fatalf("sold listing must not appear in the approved list, got %d", total)
	}
}

func TestListingModerateTransitions(t *testing.T) {
	svc, _ := setupListingServiceTest(t)
	listing, err := svc.Submit(SubmitListingInput{
		Name:       "Pass áo thun",
		Tag:        constants.ListingTagPass,
		SellerName: "Ngọc",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := svc.Moderate(listing.ID, constants.ListingStatusSold, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Moderate(listing.ID, constants.ListingStatusRejected, "thiếu ảnh"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if _, err := svc.Moderate(listing.ID, constants.ListingStatusApproved, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("rejected is terminal, got %v", err)
	}
}

func TestListingUpdatePreservesCodeAndStatus(t *testing.T) {
	svc, _ := setupListingServiceTest(t)
	listing, err := svc.Submit(SubmitListingInput{
		Name:       "Pass áo thun",
		Tag:        constants.ListingTagPass,
		SellerName: "Ngọc",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	edited := *listing
	edited.Name = "Pass áo thun size L"
	edited.Code = "PG999"
	edited.Status = constants.ListingStatusApproved
	if err := svc.Update(&edited); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	after, err := svc.Get(listing.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if after.Name != "Pass áo thun size L" {
		t.Fatalf("expected name updated, got %q", after.Name)
	}
	if after.Code != listing.Code || after.Status != constants.ListingStatusPending {
		t.Fatalf("code and status must be preserved, got %s/%s", after.Code, after.Status)
	}
}
