package service

import "errors"

// Sentinel errors shared by the service layer. Handlers map these to the
// response codes and Vietnamese messages shown to customers.
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrProductUnavailable    = errors.New("product unavailable")
	ErrVariantNotFound       = errors.New("variant not found")
	ErrInvalidOrderItem      = errors.New("invalid order item")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderUpdateFailed     = errors.New("order update failed")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrTrackingRequired      = errors.New("shipping provider and tracking code required")
	ErrMergeNotEligible      = errors.New("orders not eligible for merge")
	ErrDiscountNotFound      = errors.New("discount code not found")
	ErrDiscountInvalid       = errors.New("discount code invalid")
	ErrDiscountExhausted     = errors.New("discount code exhausted")
	ErrDiscountNotApplied    = errors.New("discount does not apply to this order")
	ErrAffiliateNotFound     = errors.New("affiliate not found")
	ErrAffiliateExists       = errors.New("affiliate already registered")
	ErrInvalidCommissionRate = errors.New("commission rate out of range")
	ErrListingNotFound       = errors.New("listing not found")
	ErrInvalidListing        = errors.New("invalid listing submission")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrCaptchaInvalid        = errors.New("captcha invalid")
	ErrWeakPassword          = errors.New("password too weak")
	ErrInvalidUploadType     = errors.New("upload type not allowed")
	ErrUploadTooLarge        = errors.New("upload exceeds size limit")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)
