package admin

import (
	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/models"

	"github.com/gin-gonic/gin"
)

// GetSetting returns one setting value by key.
func (h *Handler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, "Thiếu khóa cấu hình")
		return
	}
	value, err := h.SettingService.Get(key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"key": key, "value": value})
}

// SetSetting stores one setting value and notifies subscribers.
func (h *Handler) SetSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, "Thiếu khóa cấu hình")
		return
	}
	var value models.JSON
	if err := c.ShouldBindJSON(&value); err != nil {
		response.BadRequest(c, "Giá trị cấu hình không hợp lệ")
		return
	}
	if err := h.SettingService.Set(key, value); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã lưu cấu hình", gin.H{"key": key, "value": value})
}

type testEmailRequest struct {
	To string `json:"to" binding:"required"`
}

// SendTestEmail sends a short message so the admin can verify SMTP
// settings.
func (h *Handler) SendTestEmail(c *gin.Context) {
	var req testEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Thiếu địa chỉ nhận")
		return
	}
	err := h.EmailService.SendCustomEmail(req.To, "Kiểm tra cấu hình email",
		"Email này xác nhận cấu hình SMTP của Purin Order hoạt động bình thường.")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã gửi email kiểm tra", nil)
}
