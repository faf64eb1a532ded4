package service

import "errors"

// 服务层哨兵错误，handler 据此映射响应码与文案
var (
	ErrInvalidParams = errors.New("参数无效")
	ErrForbidden     = errors.New("无权访问")

	// 认证与用户
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidEmail       = errors.New("邮箱格式无效")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrCannotDeleteSelf   = errors.New("不能删除当前登录账号")

	// 验证码
	ErrCaptchaRequired       = errors.New("需要验证码")
	ErrCaptchaInvalid        = errors.New("验证码错误")
	ErrCaptchaConfigInvalid  = errors.New("验证码配置无效")
	ErrCaptchaGenerateFailed = errors.New("验证码生成失败")

	// 商品
	ErrProductNotFound = errors.New("商品不存在")
	ErrSlugTaken       = errors.New("商品标识已存在")

	// 购物车
	ErrCartEmpty         = errors.New("购物车为空")
	ErrCartItemNotFound  = errors.New("购物车中没有该商品")
	ErrInsufficientStock = errors.New("商品库存不足")
	ErrCartUpdateFailed  = errors.New("购物车更新失败")

	// 订单
	ErrOrderNotFound         = errors.New("订单不存在")
	ErrOrderCreateFailed     = errors.New("订单创建失败")
	ErrOrderAlreadyPaid      = errors.New("订单已支付")
	ErrOrderNotPaid          = errors.New("订单未支付")
	ErrOrderAlreadyDelivered = errors.New("订单已发货")
	ErrAddressRequired       = errors.New("缺少收货地址")
	ErrPaymentMethodRequired = errors.New("缺少支付方式")
	ErrPaymentMethodInvalid  = errors.New("支付方式不受支持")
	ErrPaymentMethodMismatch = errors.New("支付方式与订单不一致")

	// 支付网关
	ErrPaymentConfigInvalid   = errors.New("支付配置无效")
	ErrPaymentRequestFailed   = errors.New("支付网关请求失败")
	ErrPaymentResponseInvalid = errors.New("支付网关响应无效")
	ErrPaymentVerifyFailed    = errors.New("支付结果校验失败")

	// 评价
	ErrReviewRatingInvalid = errors.New("评分必须在 1 到 5 之间")
	ErrReviewSaveFailed    = errors.New("评价保存失败")

	// 邮件
	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrEmailSendFailed           = errors.New("邮件发送失败")
)
