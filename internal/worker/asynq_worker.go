package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/provider"
	"github.com/prostore-next/internal/queue"
	"github.com/prostore-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderReceiptEmail, c.handleOrderReceiptEmail)
}

func (c *Consumer) handleOrderReceiptEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_receipt_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderReceiptEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_receipt_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_receipt_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_receipt_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_receipt_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if !order.IsPaid {
		logger.Debugw("worker_order_receipt_email_skip_unpaid", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	receiverEmail := resolveReceiptReceiver(c, order)
	if receiverEmail == "" {
		logger.Debugw("worker_order_receipt_email_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_receipt_email_skip_email_service_nil", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if err := c.EmailService.SendOrderReceipt(receiverEmail, order, ""); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_order_receipt_email_skip_disabled", "order_id", order.ID, "order_no", order.OrderNo)
			return nil
		}
		logger.Warnw("worker_order_receipt_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", receiverEmail,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_order_receipt_email_sent", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}

// resolveReceiptReceiver 优先使用预加载的下单用户邮箱，缺失时回查用户表。
func resolveReceiptReceiver(c *Consumer, order *models.Order) string {
	if order.User != nil {
		if email := strings.TrimSpace(order.User.Email); email != "" {
			return email
		}
	}
	if order.UserID == 0 || c.UserRepo == nil {
		return ""
	}
	user, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_receipt_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return ""
	}
	if user == nil {
		return ""
	}
	return strings.TrimSpace(user.Email)
}
