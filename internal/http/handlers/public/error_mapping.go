package public

import (
	"errors"

	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/i18n"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
// redirect 非空时响应附带 redirect_to，引导前端跳转补齐下单前置条件。
type mappedHandlerError struct {
	target   error
	code     int
	key      string
	redirect string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			if rule.redirect != "" {
				locale := i18n.ResolveLocale(c)
				response.ErrorWithRedirect(c, rule.code, i18n.T(locale, rule.key), rule.redirect)
				return
			}
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
	{target: service.ErrInvalidParams, code: response.CodeBadRequest, key: "error.invalid_params"},
}

var placeOrderErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty", redirect: constants.RedirectCart},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, key: "error.address_required", redirect: constants.RedirectShippingAddress},
	{target: service.ErrPaymentMethodRequired, code: response.CodeBadRequest, key: "error.payment_method_required", redirect: constants.RedirectPaymentMethod},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, key: "error.payment_method_invalid", redirect: constants.RedirectPaymentMethod},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
}

var orderAccessErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.order_forbidden"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.order_forbidden"},
	{target: service.ErrOrderAlreadyPaid, code: response.CodeConflict, key: "error.order_already_paid"},
	{target: service.ErrPaymentMethodMismatch, code: response.CodeBadRequest, key: "error.payment_method_mismatch"},
	{target: service.ErrPaymentConfigInvalid, code: response.CodeInternal, key: "error.payment_config_invalid"},
	{target: service.ErrPaymentRequestFailed, code: response.CodeBadRequest, key: "error.payment_request_failed"},
	{target: service.ErrPaymentResponseInvalid, code: response.CodeBadRequest, key: "error.payment_response_invalid"},
	{target: service.ErrPaymentVerifyFailed, code: response.CodeBadRequest, key: "error.payment_verify_failed"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrReviewRatingInvalid, code: response.CodeBadRequest, key: "error.review_rating_invalid"},
	{target: service.ErrInvalidParams, code: response.CodeBadRequest, key: "error.invalid_params"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondPlaceOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, placeOrderErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderAccessError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderAccessErrorRules, response.CodeInternal, "error.internal")
}

func respondPaymentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
}

func respondReviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_save_failed")
}
