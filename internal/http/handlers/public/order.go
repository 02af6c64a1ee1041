package public

import (
	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/service"

	"github.com/gin-gonic/gin"
)

// PreviewCheckout prices a cart, including discount evaluation, without
// creating anything.
func (h *Handler) PreviewCheckout(c *gin.Context) {
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	quote, err := h.CheckoutService.Quote(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, quote)
}

// CreateCheckout places the order set. The response carries one order per
// master group.
func (h *Handler) CreateCheckout(c *gin.Context) {
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	orders, err := h.CheckoutService.Checkout(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đặt hàng thành công", orders)
}

// TrackOrder is the customer lookup by order number and phone.
func (h *Handler) TrackOrder(c *gin.Context) {
	orderNo := c.Query("order_no")
	phone := c.Query("phone")
	order, history, err := h.OrderService.Track(orderNo, phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":   order,
		"history": history,
	})
}

// ListOrdersByPhone returns the order history of one phone number.
func (h *Handler) ListOrdersByPhone(c *gin.Context) {
	orders, err := h.OrderService.ListByPhone(c.Query("phone"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, orders)
}
