package constants

// 用户角色常量
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

// 支付方式常量
const (
	PaymentMethodPayPal         = "PayPal"
	PaymentMethodStripe         = "Stripe"
	PaymentMethodCashOnDelivery = "CashOnDelivery"
)

// PayPal 交易状态常量
const (
	PayPalStatusCompleted = "COMPLETED"
)

// Stripe 支付意图状态常量
const (
	StripeIntentStatusSucceeded = "succeeded"
)

// 商品排序常量
const (
	ProductSortNewest    = "newest"
	ProductSortPriceAsc  = "lowest"
	ProductSortPriceDesc = "highest"
	ProductSortRating    = "rating"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderReceiptEmail = "order:receipt_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ps"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码场景常量
const (
	CaptchaSceneLogin = "login"
)

// 前端引导路径常量，下单前置条件缺失时带回给客户端
const (
	RedirectCart            = "/cart"
	RedirectShippingAddress = "/shipping-address"
	RedirectPaymentMethod   = "/payment-method"
)

// 站点币种常量
const (
	SiteCurrencyDefault = "USD"
)
