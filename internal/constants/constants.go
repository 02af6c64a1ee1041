package constants

// Product status values. These are user-facing Vietnamese labels and are
// stored as-is, matching what the storefront renders.
const (
	ProductStatusAvailable = "Sẵn"
	ProductStatusOrder     = "Order"
	ProductStatusPreOrder  = "Pre-order"
	ProductStatusHidden    = "Ẩn"
)

// Payment status values.
const (
	PaymentStatusUnpaid            = "Chưa thanh toán"
	PaymentStatusAwaitingConfirm   = "Đang xác nhận thanh toán"
	PaymentStatusDepositConfirming = "Đang xác nhận cọc"
	PaymentStatusDeposited         = "Đã cọc"
	PaymentStatusPaid              = "Đã thanh toán"
	PaymentStatusDepositRefunded   = "Đã hoàn cọc"
)

// Order progress values.
const (
	OrderProgressProcessing  = "Đang xử lý"
	OrderProgressWaitingGood = "Chờ hàng về"
	OrderProgressReadyToShip = "Sẵn sàng giao"
	OrderProgressShipping    = "Đang giao hàng"
	OrderProgressCompleted   = "Đã hoàn thành"
	OrderProgressCancelled   = "Đã huỷ"
)

// Payment type chosen at checkout.
const (
	PaymentTypeFull    = "full"
	PaymentTypeDeposit = "deposit"
)

// Payment method values.
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMomo         = "momo"
)

// Discount code types.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Affiliate account status values.
const (
	AffiliateStatusPending   = "pending"
	AffiliateStatusApproved  = "approved"
	AffiliateStatusRejected  = "rejected"
	AffiliateStatusSuspended = "suspended"
)

// Affiliate order (commission) status values.
const (
	AffiliateOrderStatusPending   = "pending"
	AffiliateOrderStatusConfirmed = "confirmed"
	AffiliateOrderStatusPaid      = "paid"
)

// User listing tags (peer-to-peer classifieds).
const (
	ListingTagPass = "Pass"
	ListingTagGom  = "Gom"
)

// User listing status values.
const (
	ListingStatusPending  = "pending"
	ListingStatusApproved = "approved"
	ListingStatusRejected = "rejected"
	ListingStatusSold     = "sold"
)

// Order status history field names.
const (
	HistoryFieldPaymentStatus = "payment_status"
	HistoryFieldOrderProgress = "order_progress"
)

// Upload scenes.
const (
	UploadSceneProduct      = "product"
	UploadScenePaymentProof = "payment_proof"
	UploadSceneListing      = "listing"
)

// Queue and task names.
const (
	QueueDefault              = "default"
	TaskOrderConfirmEmail     = "order:confirm_email"
	TaskOrderStatusEmail      = "order:status_email"
	TaskFeedSyncPull          = "feed:sync_pull"
	TaskFeedSyncPush          = "feed:sync_push"
	TaskProductExpiringCheck  = "product:expiring_check"
	TaskAffiliateConfirm      = "affiliate:confirm"
	TaskAffiliateRecomputeAll = "affiliate:recompute_rates"
)

// Setting keys.
const (
	SettingKeyPageVisibility = "page_visibility"
	SettingKeyBankAccount    = "bank_account"
	SettingKeyShopNotice     = "shop_notice"
)

// Cache keys.
const (
	RedisPrefixDefault  = "purin"
	CacheKeyCatalog     = "catalog:merged"
	CatalogCacheSeconds = 60
)
