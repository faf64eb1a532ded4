package public

import (
	"errors"
	"io"
	"strings"

	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
	handlershared "github.com/prostore-next/internal/http/handlers/shared"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

// StripeWebhook Stripe webhook 回调，签名校验失败一律 400。
func (h *Handler) StripeWebhook(c *gin.Context) {
	log := requestLog(c)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("stripe_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}
	signature := strings.TrimSpace(c.GetHeader("Stripe-Signature"))
	log.Infow("stripe_webhook_received",
		"client_ip", c.ClientIP(),
		"body_size", len(body),
		"has_signature", signature != "",
	)

	if err := h.PaymentService.HandleStripeWebhook(signature, body); err != nil {
		log.Warnw("stripe_webhook_handle_failed", "error", err)
		switch {
		case errors.Is(err, service.ErrPaymentVerifyFailed):
			respondError(c, response.CodeBadRequest, "error.payment_verify_failed", nil)
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		default:
			respondPaymentError(c, err)
		}
		return
	}

	response.Success(c, gin.H{"received": true})
}
