package admin

import (
	"strconv"

	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/repository"
	"github.com/purinorder/purinorder/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAffiliates returns the affiliate table.
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Search:   c.Query("keyword"),
	}
	affiliates, total, err := h.AffiliateService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, affiliates, response.NewPagination(page, pageSize, total))
}

// GetAffiliate returns one affiliate.
func (h *Handler) GetAffiliate(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã cộng tác viên không hợp lệ")
		return
	}
	affiliate, err := h.AffiliateService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, affiliate)
}

type moderateRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ModerateAffiliate approves, rejects or suspends an affiliate.
func (h *Handler) ModerateAffiliate(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã cộng tác viên không hợp lệ")
		return
	}
	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu trạng thái")
		return
	}
	affiliate, err := h.AffiliateService.Moderate(id, req.Status, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, affiliate)
}

type updateAffiliateRequest struct {
	CommissionRate *float64 `json:"commission_rate"`
	AdminNote      *string  `json:"admin_note"`
}

// UpdateAffiliate edits the commission rate or the internal note.
func (h *Handler) UpdateAffiliate(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã cộng tác viên không hợp lệ")
		return
	}
	var req updateAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	affiliate, err := h.AffiliateService.UpdateProfile(service.UpdateProfileInput{
		AffiliateID:    id,
		CommissionRate: req.CommissionRate,
		AdminNote:      req.AdminNote,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã cập nhật cộng tác viên", affiliate)
}

// ListAffiliateOrders returns the commission records of one affiliate.
func (h *Handler) ListAffiliateOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := repository.AffiliateOrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: parseID(c),
		Status:      c.Query("status"),
	}
	records, total, err := h.AffiliateService.Orders(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, records, response.NewPagination(page, pageSize, total))
}

// PayAffiliateCommission settles every confirmed commission of one
// affiliate.
func (h *Handler) PayAffiliateCommission(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã cộng tác viên không hợp lệ")
		return
	}
	paid, err := h.AffiliateService.PayCommission(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã thanh toán hoa hồng", gin.H{"paid": paid})
}

// RecomputeAffiliateRates re-tiers every approved affiliate.
func (h *Handler) RecomputeAffiliateRates(c *gin.Context) {
	changes, err := h.AffiliateService.RecomputeRates()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã tính lại tỉ lệ hoa hồng", gin.H{"changes": changes})
}
