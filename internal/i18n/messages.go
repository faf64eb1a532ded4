package i18n

import "github.com/prostore-next/internal/constants"

// messages 各语言的消息表，key 与业务错误一一对应。
var messages = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.internal":       "internal server error",
		"error.invalid_params": "invalid request parameters",
		"error.unauthorized":   "authentication required",
		"error.forbidden":      "permission denied",

		"error.auth_header_missing": "authorization header missing",
		"error.auth_header_invalid": "authorization header invalid",
		"error.token_invalid":       "token invalid or expired",
		"error.token_revoked":       "token has been revoked",
		"error.jwt_secret_missing":  "authentication is not configured",

		"error.rate_limited":           "too many requests, please retry later",
		"error.login_too_many":         "too many login attempts, please retry later",
		"error.rate_limit_unavailable": "rate limiter unavailable",

		"error.captcha_required":        "captcha is required",
		"error.captcha_invalid":         "captcha verification failed",
		"error.captcha_generate_failed": "failed to generate captcha",

		"error.invalid_credentials": "invalid email or password",
		"error.email_taken":         "email is already registered",
		"error.email_invalid":       "email address is invalid",
		"error.password_too_short":       "password must be at least %d characters",
		"error.password_too_long":        "password must be at most %d bytes",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a number",
		"error.password_require_special": "password must contain a special character",
		"error.user_not_found":      "user not found",
		"error.cannot_delete_self":  "you cannot delete your own account",

		"error.product_not_found": "product not found",
		"error.slug_taken":        "product slug is already in use",

		"error.cart_empty":          "your cart is empty",
		"error.cart_item_not_found": "item is not in the cart",
		"error.insufficient_stock":  "not enough stock",
		"error.cart_update_failed":  "failed to update cart",

		"error.order_not_found":          "order not found",
		"error.order_forbidden":          "you do not have access to this order",
		"error.order_already_paid":       "order is already paid",
		"error.order_not_paid":           "order is not paid",
		"error.order_already_delivered":  "order is already delivered",
		"error.order_create_failed":      "failed to place order",
		"error.address_required":         "no shipping address",
		"error.payment_method_required":  "no payment method",
		"error.payment_method_invalid":   "payment method is not supported",
		"error.payment_method_mismatch":  "order was not placed with this payment method",
		"error.payment_config_invalid":   "payment gateway is not configured",
		"error.payment_request_failed":   "payment gateway request failed",
		"error.payment_response_invalid": "payment gateway returned an invalid response",
		"error.payment_verify_failed":    "error in payment verification",

		"error.review_rating_invalid": "rating must be between 1 and 5",
		"error.review_save_failed":    "failed to save review",

		"message.cart_item_added":   "%s added to cart",
		"message.cart_item_removed": "%s removed from cart",
		"message.order_placed":      "order created successfully",
		"message.order_paid":        "order marked as paid",
		"message.order_delivered":   "order marked as delivered",
		"message.review_saved":      "review submitted successfully",

		"email.receipt.subject": "Receipt for order %s",
		"email.receipt.intro":   "Thanks for your purchase. Here is the receipt for order %s:",
		"email.receipt.totals":  "Items: %s\nShipping: %s\nTax: %s\nTotal: %s %s",
	},
	constants.LocaleZhCN: {
		"error.internal":       "服务器内部错误",
		"error.invalid_params": "请求参数无效",
		"error.unauthorized":   "请先登录",
		"error.forbidden":      "没有访问权限",

		"error.auth_header_missing": "缺少认证信息",
		"error.auth_header_invalid": "认证信息格式错误",
		"error.token_invalid":       "登录已失效，请重新登录",
		"error.token_revoked":       "登录状态已注销",
		"error.jwt_secret_missing":  "认证服务未配置",

		"error.rate_limited":           "请求过于频繁，请稍后再试",
		"error.login_too_many":         "登录尝试过于频繁，请稍后再试",
		"error.rate_limit_unavailable": "限流服务不可用",

		"error.captcha_required":        "请输入验证码",
		"error.captcha_invalid":         "验证码错误",
		"error.captcha_generate_failed": "验证码生成失败",

		"error.invalid_credentials": "邮箱或密码错误",
		"error.email_taken":         "邮箱已被注册",
		"error.email_invalid":       "邮箱格式不正确",
		"error.password_too_short":       "密码长度不能少于 %d 位",
		"error.password_too_long":        "密码长度不能超过 %d 字节",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",
		"error.user_not_found":      "用户不存在",
		"error.cannot_delete_self":  "不能删除自己的账号",

		"error.product_not_found": "商品不存在",
		"error.slug_taken":        "商品标识已被占用",

		"error.cart_empty":          "购物车是空的",
		"error.cart_item_not_found": "购物车中没有该商品",
		"error.insufficient_stock":  "商品库存不足",
		"error.cart_update_failed":  "购物车更新失败",

		"error.order_not_found":          "订单不存在",
		"error.order_forbidden":          "无权访问该订单",
		"error.order_already_paid":       "订单已支付",
		"error.order_not_paid":           "订单尚未支付",
		"error.order_already_delivered":  "订单已发货",
		"error.order_create_failed":      "下单失败",
		"error.address_required":         "请先填写收货地址",
		"error.payment_method_required":  "请先选择支付方式",
		"error.payment_method_invalid":   "不支持的支付方式",
		"error.payment_method_mismatch":  "订单未使用该支付方式",
		"error.payment_config_invalid":   "支付网关未配置",
		"error.payment_request_failed":   "支付网关请求失败",
		"error.payment_response_invalid": "支付网关响应异常",
		"error.payment_verify_failed":    "支付校验失败",

		"error.review_rating_invalid": "评分需在 1 到 5 之间",
		"error.review_save_failed":    "评价保存失败",

		"message.cart_item_added":   "%s 已加入购物车",
		"message.cart_item_removed": "%s 已从购物车移除",
		"message.order_placed":      "下单成功",
		"message.order_paid":        "订单已标记为已支付",
		"message.order_delivered":   "订单已标记为已发货",
		"message.review_saved":      "评价提交成功",

		"email.receipt.subject": "订单 %s 收据",
		"email.receipt.intro":   "感谢您的购买，以下是订单 %s 的收据：",
		"email.receipt.totals":  "商品金额：%s\n运费：%s\n税费：%s\n合计：%s %s",
	},
}
