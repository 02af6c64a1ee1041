package public

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

var storefrontErrorRules = []mappedError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "Không tìm thấy sản phẩm"},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, msg: "Sản phẩm hiện không thể đặt"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, msg: "Phân loại sản phẩm không hợp lệ"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "Thông tin đặt hàng không hợp lệ"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "Không tìm thấy đơn hàng"},
	{target: service.ErrDiscountNotFound, code: response.CodeBadRequest, msg: "Mã giảm giá không tồn tại"},
	{target: service.ErrDiscountInvalid, code: response.CodeBadRequest, msg: "Mã giảm giá không hợp lệ hoặc đã hết hạn"},
	{target: service.ErrDiscountExhausted, code: response.CodeBadRequest, msg: "Mã giảm giá đã hết lượt sử dụng"},
	{target: service.ErrDiscountNotApplied, code: response.CodeBadRequest, msg: "Đơn hàng không đủ điều kiện áp dụng mã"},
	{target: service.ErrAffiliateExists, code: response.CodeBadRequest, msg: "Số điện thoại đã đăng ký cộng tác viên"},
	{target: service.ErrAffiliateNotFound, code: response.CodeBadRequest, msg: "Thông tin đăng ký không hợp lệ"},
	{target: service.ErrListingNotFound, code: response.CodeNotFound, msg: "Không tìm thấy tin đăng"},
	{target: service.ErrInvalidListing, code: response.CodeBadRequest, msg: "Thông tin tin đăng không hợp lệ"},
	{target: service.ErrInvalidUploadType, code: response.CodeBadRequest, msg: "Định dạng tệp không được hỗ trợ"},
	{target: service.ErrUploadTooLarge, code: response.CodeBadRequest, msg: "Tệp vượt quá dung lượng cho phép"},
}

// respondServiceError maps a service error onto the envelope. Unknown errors
// become a generic 500 and get logged with the request id.
func respondServiceError(c *gin.Context, err error) {
	for _, rule := range storefrontErrorRules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.msg)
			return
		}
	}
	logger.Errorw("public_api_error", "path", c.Request.URL.Path, "error", err)
	response.Internal(c, "Có lỗi xảy ra, vui lòng thử lại sau")
}
