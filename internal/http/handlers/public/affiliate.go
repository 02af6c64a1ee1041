package public

import (
	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterAffiliate accepts a collaborator sign up.
func (h *Handler) RegisterAffiliate(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	affiliate, err := h.AffiliateService.Register(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Đã đăng ký, chờ duyệt", gin.H{
		"referral_code": affiliate.ReferralCode,
		"status":        affiliate.Status,
	})
}

// UploadPaymentProof stores one transfer screenshot and returns its URL.
func (h *Handler) UploadPaymentProof(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Thiếu tệp tải lên")
		return
	}
	url, err := h.UploadService.SaveFile(file, constants.UploadScenePaymentProof)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}
