package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/payment/paypal"
	"github.com/prostore-next/internal/payment/stripe"
	"github.com/prostore-next/internal/repository"
)

// PaymentService 支付服务，对接 PayPal 与 Stripe 网关。
// 货到付款订单没有网关流程，由管理端直接确认收款。
type PaymentService struct {
	cfg          *config.Config
	orderRepo    repository.OrderRepository
	orderService *OrderService
}

// NewPaymentService 创建支付服务
func NewPaymentService(cfg *config.Config, orderRepo repository.OrderRepository, orderService *OrderService) *PaymentService {
	return &PaymentService{
		cfg:          cfg,
		orderRepo:    orderRepo,
		orderService: orderService,
	}
}

// PayPalOrderResult 创建 PayPal 订单的返回
type PayPalOrderResult struct {
	PayPalOrderID string `json:"paypal_order_id"`
	Status        string `json:"status"`
}

// StripeIntentResult 创建 Stripe 支付意图的返回
type StripeIntentResult struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreatePayPalOrder 为订单创建 PayPal 网关订单，
// 网关订单号写入订单的支付结果快照，供后续捕获校验。
func (s *PaymentService) CreatePayPalOrder(ctx context.Context, orderID uint, requesterID uint, isAdmin bool) (*PayPalOrderResult, error) {
	order, err := s.loadPayableOrder(orderID, requesterID, isAdmin, constants.PaymentMethodPayPal)
	if err != nil {
		return nil, err
	}

	result, err := paypal.CreateOrder(ctx, s.cfg.Payment.PayPal, paypal.CreateInput{
		OrderNo:     order.OrderNo,
		Amount:      order.TotalPrice.String(),
		Currency:    constants.SiteCurrencyDefault,
		Description: "Order " + order.OrderNo,
	})
	if err != nil {
		return nil, mapPayPalError(err)
	}

	paymentResult := &models.PaymentResult{ID: result.OrderID, Status: result.Status}
	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"payment_result": paymentResult,
	}); err != nil {
		return nil, err
	}

	logger.Infow("paypal_order_created",
		"order_no", order.OrderNo,
		"paypal_order_id", result.OrderID,
	)
	return &PayPalOrderResult{PayPalOrderID: result.OrderID, Status: result.Status}, nil
}

// ApprovePayPalOrder 捕获 PayPal 订单并将本地订单置为已支付。
// 捕获结果的网关订单号必须与下单时记录的一致，且状态为 COMPLETED。
func (s *PaymentService) ApprovePayPalOrder(ctx context.Context, orderID uint, requesterID uint, isAdmin bool, paypalOrderID string) (*models.Order, error) {
	order, err := s.loadPayableOrder(orderID, requesterID, isAdmin, constants.PaymentMethodPayPal)
	if err != nil {
		return nil, err
	}
	paypalOrderID = strings.TrimSpace(paypalOrderID)
	if paypalOrderID == "" {
		return nil, ErrInvalidParams
	}
	if order.PaymentResult == nil || order.PaymentResult.ID == "" || order.PaymentResult.ID != paypalOrderID {
		return nil, ErrPaymentVerifyFailed
	}

	capture, err := paypal.CaptureOrder(ctx, s.cfg.Payment.PayPal, paypalOrderID)
	if err != nil {
		return nil, mapPayPalError(err)
	}
	if capture.OrderID != order.PaymentResult.ID {
		return nil, ErrPaymentVerifyFailed
	}
	if !strings.EqualFold(capture.Status, constants.PayPalStatusCompleted) {
		return nil, ErrPaymentVerifyFailed
	}

	return s.orderService.MarkPaid(order.ID, &models.PaymentResult{
		ID:           capture.OrderID,
		Status:       capture.Status,
		EmailAddress: capture.PayerEmail,
		PricePaid:    capture.Amount,
	})
}

// CreateStripeIntent 为订单创建 Stripe 支付意图并返回客户端密钥
func (s *PaymentService) CreateStripeIntent(ctx context.Context, orderID uint, requesterID uint, isAdmin bool) (*StripeIntentResult, error) {
	order, err := s.loadPayableOrder(orderID, requesterID, isAdmin, constants.PaymentMethodStripe)
	if err != nil {
		return nil, err
	}

	result, err := stripe.CreatePaymentIntent(ctx, s.cfg.Payment.Stripe, stripe.CreateInput{
		OrderNo:     order.OrderNo,
		Amount:      order.TotalPrice.String(),
		Currency:    constants.SiteCurrencyDefault,
		Description: "Order " + order.OrderNo,
	})
	if err != nil {
		return nil, mapStripeError(err)
	}

	paymentResult := &models.PaymentResult{ID: result.IntentID, Status: result.Status}
	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"payment_result": paymentResult,
	}); err != nil {
		return nil, err
	}

	logger.Infow("stripe_intent_created",
		"order_no", order.OrderNo,
		"intent_id", result.IntentID,
	)
	return &StripeIntentResult{
		IntentID:     result.IntentID,
		ClientSecret: result.ClientSecret,
		Status:       result.Status,
	}, nil
}

// SyncStripeIntent 主动向网关查询已创建的支付意图。
// 意图已成功时直接落账，不必等待 Webhook；未完成时只返回当前状态。
func (s *PaymentService) SyncStripeIntent(ctx context.Context, orderID uint, requesterID uint, isAdmin bool) (*StripeIntentResult, error) {
	order, err := s.loadPayableOrder(orderID, requesterID, isAdmin, constants.PaymentMethodStripe)
	if err != nil {
		return nil, err
	}
	if order.PaymentResult == nil || order.PaymentResult.ID == "" {
		return nil, ErrPaymentVerifyFailed
	}

	intent, err := stripe.QueryPaymentIntent(ctx, s.cfg.Payment.Stripe, order.PaymentResult.ID)
	if err != nil {
		return nil, mapStripeError(err)
	}
	if intent.IntentID != order.PaymentResult.ID {
		return nil, ErrPaymentVerifyFailed
	}

	if strings.EqualFold(intent.Status, constants.StripeIntentStatusSucceeded) {
		if _, err := s.orderService.MarkPaid(order.ID, &models.PaymentResult{
			ID:        intent.IntentID,
			Status:    intent.Status,
			PricePaid: intent.Amount,
		}); err != nil {
			return nil, err
		}
		logger.Infow("stripe_intent_synced_paid",
			"order_no", order.OrderNo,
			"intent_id", intent.IntentID,
		)
	}
	return &StripeIntentResult{IntentID: intent.IntentID, Status: intent.Status}, nil
}

// HandleStripeWebhook 校验签名后处理 Stripe 事件。
// 只关心 payment_intent.succeeded，元数据里的订单编号定位本地订单。
// 重复投递的事件落在已支付订单上时按成功处理。
func (s *PaymentService) HandleStripeWebhook(signatureHeader string, body []byte) error {
	event, err := stripe.VerifyAndParseWebhook(s.cfg.Payment.Stripe, signatureHeader, body, time.Now())
	if err != nil {
		return mapStripeError(err)
	}

	if event.EventType != "payment_intent.succeeded" {
		logger.Debugw("stripe_webhook_ignored", "event_type", event.EventType)
		return nil
	}
	if !strings.EqualFold(event.Status, constants.StripeIntentStatusSucceeded) {
		return ErrPaymentVerifyFailed
	}
	if event.OrderNo == "" {
		return ErrPaymentVerifyFailed
	}

	order, err := s.orderRepo.GetByOrderNo(event.OrderNo)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.IsPaid {
		logger.Infow("stripe_webhook_duplicate", "order_no", order.OrderNo)
		return nil
	}

	_, err = s.orderService.MarkPaid(order.ID, &models.PaymentResult{
		ID:           event.IntentID,
		Status:       event.Status,
		EmailAddress: event.Email,
		PricePaid:    event.Amount,
	})
	return err
}

// loadPayableOrder 加载待支付订单并校验归属与支付方式
func (s *PaymentService) loadPayableOrder(orderID uint, requesterID uint, isAdmin bool, method string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrInvalidParams
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}
	if !strings.EqualFold(order.PaymentMethod, method) {
		return nil, ErrPaymentMethodMismatch
	}
	if order.IsPaid {
		return nil, ErrOrderAlreadyPaid
	}
	return order, nil
}

func mapPayPalError(err error) error {
	switch {
	case errors.Is(err, paypal.ErrConfigInvalid):
		return ErrPaymentConfigInvalid
	case errors.Is(err, paypal.ErrAuthFailed), errors.Is(err, paypal.ErrRequestFailed):
		return ErrPaymentRequestFailed
	case errors.Is(err, paypal.ErrResponseInvalid):
		return ErrPaymentResponseInvalid
	default:
		return ErrPaymentRequestFailed
	}
}

func mapStripeError(err error) error {
	switch {
	case errors.Is(err, stripe.ErrConfigInvalid):
		return ErrPaymentConfigInvalid
	case errors.Is(err, stripe.ErrSignatureInvalid):
		return ErrPaymentVerifyFailed
	case errors.Is(err, stripe.ErrRequestFailed):
		return ErrPaymentRequestFailed
	case errors.Is(err, stripe.ErrResponseInvalid):
		return ErrPaymentResponseInvalid
	default:
		return ErrPaymentRequestFailed
	}
}
