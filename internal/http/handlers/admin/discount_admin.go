package admin

import (
	"strconv"

	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListDiscounts returns the discount code table.
func (h *Handler) ListDiscounts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := repository.DiscountCodeListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("keyword"),
		ActiveOnly: c.Query("active_only") == "true",
	}
	codes, total, err := h.DiscountService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, codes, response.NewPagination(page, pageSize, total))
}

// GetDiscount returns one discount code.
func (h *Handler) GetDiscount(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã không hợp lệ")
		return
	}
	code, err := h.DiscountService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, code)
}

// CreateDiscount saves a new discount code.
func (h *Handler) CreateDiscount(c *gin.Context) {
	var code models.DiscountCode
	if err := c.ShouldBindJSON(&code); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	if err := h.DiscountService.Create(&code); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã tạo mã giảm giá", code)
}

// UpdateDiscount rewrites a discount code.
func (h *Handler) UpdateDiscount(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã không hợp lệ")
		return
	}
	var code models.DiscountCode
	if err := c.ShouldBindJSON(&code); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	code.ID = id
	if err := h.DiscountService.Update(&code); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã cập nhật mã giảm giá", code)
}

// DeleteDiscount removes a discount code.
func (h *Handler) DeleteDiscount(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã không hợp lệ")
		return
	}
	if err := h.DiscountService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã xoá mã giảm giá", nil)
}
