package admin

import (
	"strconv"
	"time"

	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"
	"github.com/purinorder/purinorder/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders returns the order table with filters.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		OrderNo:       c.Query("order_no"),
		Phone:         c.Query("phone"),
		PaymentStatus: c.Query("payment_status"),
		OrderProgress: c.Query("order_progress"),
		Search:        c.Query("keyword"),
	}
	if from := c.Query("created_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if to := c.Query("created_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24 * time.Hour)
			filter.CreatedTo = &end
		}
	}
	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder returns one order.
func (h *Handler) GetOrder(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã đơn không hợp lệ")
		return
	}
	order, err := h.OrderService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrderHistory returns the status change log of one order.
func (h *Handler) GetOrderHistory(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã đơn không hợp lệ")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	history, total, err := h.OrderService.History(id, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, history, response.NewPagination(page, pageSize, total))
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// UpdateOrderPaymentStatus applies one payment status transition.
func (h *Handler) UpdateOrderPaymentStatus(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã đơn không hợp lệ")
		return
	}
	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu trạng thái mới")
		return
	}
	order, err := h.OrderService.UpdatePaymentStatus(service.UpdatePaymentStatusInput{
		OrderID: id,
		To:      req.PaymentStatus,
		Actor:   adminUsername(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

type updateProgressRequest struct {
	OrderProgress    string `json:"order_progress" binding:"required"`
	ShippingProvider string `json:"shipping_provider"`
	TrackingCode     string `json:"tracking_code"`
}

// UpdateOrderProgress applies one fulfillment progress transition.
func (h *Handler) UpdateOrderProgress(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã đơn không hợp lệ")
		return
	}
	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu trạng thái mới")
		return
	}
	order, err := h.OrderService.UpdateProgress(service.UpdateProgressInput{
		OrderID:          id,
		To:               req.OrderProgress,
		ShippingProvider: req.ShippingProvider,
		TrackingCode:     req.TrackingCode,
		Actor:            adminUsername(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

type updateOrderDetailsRequest struct {
	AdminNote        *string       `json:"admin_note"`
	Surcharge        *models.Money `json:"surcharge"`
	ShippingProvider *string       `json:"shipping_provider"`
	TrackingCode     *string       `json:"tracking_code"`
	ProofURLs        []string      `json:"proof_urls"`
}

// UpdateOrderDetails writes the freely editable order fields.
func (h *Handler) UpdateOrderDetails(c *gin.Context) {
	id := parseID(c)
	if id == 0 {
		response.BadRequest(c, "Mã đơn không hợp lệ")
		return
	}
	var req updateOrderDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	order, err := h.OrderService.UpdateDetails(service.UpdateDetailsInput{
		OrderID:          id,
		AdminNote:        req.AdminNote,
		Surcharge:        req.Surcharge,
		ShippingProvider: req.ShippingProvider,
		TrackingCode:     req.TrackingCode,
		ProofURLs:        req.ProofURLs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// GetMergeCandidates lists groups of orders eligible for merging.
func (h *Handler) GetMergeCandidates(c *gin.Context) {
	groups, err := h.MergeService.Candidates()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, groups)
}

type mergeOrdersRequest struct {
	OrderIDs []uint `json:"order_ids" binding:"required"`
}

// MergeOrders folds the selected orders into the earliest one.
func (h *Handler) MergeOrders(c *gin.Context) {
	var req mergeOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu danh sách đơn cần gộp")
		return
	}
	survivor, err := h.MergeService.Merge(req.OrderIDs, adminUsername(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã gộp đơn", survivor)
}

func parseID(c *gin.Context) uint {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
