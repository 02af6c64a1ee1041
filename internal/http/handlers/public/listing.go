package public

import (
	"strconv"

	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/repository"
	"github.com/purinorder/purinorder/internal/service"

	"github.com/gin-gonic/gin"
)

// GetListings returns approved pass/gom listings.
func (h *Handler) GetListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := repository.ListingListFilter{
		Page:     page,
		PageSize: pageSize,
		Tag:      c.Query("tag"),
		Category: c.Query("category"),
		Search:   c.Query("keyword"),
	}
	listings, total, err := h.ListingService.PublicList(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, listings, response.NewPagination(page, pageSize, total))
}

// GetListing returns one approved listing by its PG code.
func (h *Handler) GetListing(c *gin.Context) {
	listing, err := h.ListingService.PublicGet(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, listing)
}

// SubmitListing accepts a customer submission for moderation.
func (h *Handler) SubmitListing(c *gin.Context) {
	var input service.SubmitListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	listing, err := h.ListingService.Submit(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã gửi tin, chờ duyệt", listing)
}
