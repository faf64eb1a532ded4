package public

import (
	"strconv"
	"strings"

	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// PayPalApproveRequest PayPal 支付确认请求
type PayPalApproveRequest struct {
	PayPalOrderID string `json:"paypal_order_id" binding:"required"`
}

func orderIDParam(c *gin.Context) (uint, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return 0, false
	}
	return uint(orderID), true
}

// CreatePayPalOrder 为订单创建 PayPal 网关订单
func (h *Handler) CreatePayPalOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	result, err := h.PaymentService.CreatePayPalOrder(c.Request.Context(), orderID, uid, isAdmin(c))
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, gin.H{
		"paypal_order_id": result.PayPalOrderID,
		"status":          result.Status,
	})
}

// ApprovePayPalOrder 买家批准后捕获 PayPal 订单并入账
func (h *Handler) ApprovePayPalOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req PayPalApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	order, err := h.PaymentService.ApprovePayPalOrder(c.Request.Context(), orderID, uid, isAdmin(c), strings.TrimSpace(req.PayPalOrderID))
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.order_paid"), order)
}

// CreateStripeIntent 为订单创建 Stripe PaymentIntent
func (h *Handler) CreateStripeIntent(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	result, err := h.PaymentService.CreateStripeIntent(c.Request.Context(), orderID, uid, isAdmin(c))
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, gin.H{
		"intent_id":     result.IntentID,
		"client_secret": result.ClientSecret,
		"status":        result.Status,
	})
}

// SyncStripeIntent 查询 Stripe PaymentIntent 状态，成功的意图立即入账
func (h *Handler) SyncStripeIntent(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	result, err := h.PaymentService.SyncStripeIntent(c.Request.Context(), orderID, uid, isAdmin(c))
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, gin.H{
		"intent_id": result.IntentID,
		"status":    result.Status,
	})
}
