package admin

import (
	"errors"

	"github.com/purinorder/purinorder/internal/http/response"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedError struct {
	target error
	code   int
	msg    string
}

var adminErrorRules = []mappedError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "Không tìm thấy sản phẩm"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "Không tìm thấy đơn hàng"},
	{target: service.ErrInvalidTransition, code: response.CodeBadRequest, msg: "Chuyển trạng thái không hợp lệ"},
	{target: service.ErrTrackingRequired, code: response.CodeBadRequest, msg: "Cần nhập đơn vị vận chuyển và mã vận đơn"},
	{target: service.ErrMergeNotEligible, code: response.CodeBadRequest, msg: "Các đơn được chọn không thể gộp"},
	{target: service.ErrDiscountNotFound, code: response.CodeNotFound, msg: "Không tìm thấy mã giảm giá"},
	{target: service.ErrDiscountInvalid, code: response.CodeBadRequest, msg: "Thông tin mã giảm giá không hợp lệ"},
	{target: service.ErrAffiliateNotFound, code: response.CodeNotFound, msg: "Không tìm thấy cộng tác viên"},
	{target: service.ErrInvalidCommissionRate, code: response.CodeBadRequest, msg: "Tỉ lệ hoa hồng phải nằm trong khoảng 0 đến 1"},
	{target: service.ErrListingNotFound, code: response.CodeNotFound, msg: "Không tìm thấy tin đăng"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "Sai tài khoản hoặc mật khẩu"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, msg: "Mã xác nhận không đúng"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "Mật khẩu mới quá yếu"},
	{target: service.ErrInvalidUploadType, code: response.CodeBadRequest, msg: "Định dạng tệp không được hỗ trợ"},
	{target: service.ErrUploadTooLarge, code: response.CodeBadRequest, msg: "Tệp vượt quá dung lượng cho phép"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "Dữ liệu không hợp lệ"},
	{target: service.ErrEmailServiceDisabled, code: response.CodeBadRequest, msg: "Gửi email đang tắt trong cấu hình"},
	{target: service.ErrEmailServiceNotConfigured, code: response.CodeBadRequest, msg: "Chưa cấu hình máy chủ email"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "Địa chỉ email không hợp lệ"},
}

func respondServiceError(c *gin.Context, err error) {
	for _, rule := range adminErrorRules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.msg)
			return
		}
	}
	logger.Errorw("admin_api_error", "path", c.Request.URL.Path, "error", err)
	response.Internal(c, "Có lỗi xảy ra, vui lòng thử lại sau")
}
