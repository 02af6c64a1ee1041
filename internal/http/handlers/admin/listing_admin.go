package admin

import (
	"strconv"

	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListListings returns user listings in any status.
func (h *Handler) ListListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := repository.ListingListFilter{
		Page:     page,
		PageSize: pageSize,
		Tag:      c.Query("tag"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("keyword"),
	}
	listings, total, err := h.ListingService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, listings, response.NewPagination(page, pageSize, total))
}

// GetListing returns one listing by id.
func (h *Handler) GetListing(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã tin không hợp lệ")
		return
	}
	listing, err := h.ListingService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, listing)
}

// ModerateListing approves, rejects or marks a listing sold.
func (h *Handler) ModerateListing(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã tin không hợp lệ")
		return
	}
	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu trạng thái")
		return
	}
	listing, err := h.ListingService.Moderate(id, req.Status, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, listing)
}

// UpdateListing edits a listing's content.
func (h *Handler) UpdateListing(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã tin không hợp lệ")
		return
	}
	var listing models.UserListing
	if err := c.ShouldBindJSON(&listing); err != nil {
		response.BadRequest(c, "Dữ liệu tin không hợp lệ")
		return
	}
	listing.ID = id
	if err := h.ListingService.Update(&listing); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã cập nhật tin", listing)
}

// DeleteListing removes a listing.
func (h *Handler) DeleteListing(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã tin không hợp lệ")
		return
	}
	if err := h.ListingService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã xóa tin", nil)
}
