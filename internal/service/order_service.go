package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/queue"
	"github.com/prostore-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	cfg         *config.Config
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		cfg:         cfg,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// PlaceOrder 从用户购物车创建订单。
// 前置条件依次校验：购物车非空、用户已填收货地址、用户已选支付方式。
// 订单金额直接取购物车落库的四项金额快照，下单成功后清空购物车。
func (s *OrderService) PlaceOrder(userID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidParams
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}
	if user.Address == nil || user.Address.IsZero() {
		return nil, ErrAddressRequired
	}
	paymentMethod := strings.TrimSpace(user.PaymentMethod)
	if paymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}
	if !s.isPaymentMethodSupported(paymentMethod) {
		return nil, ErrPaymentMethodInvalid
	}

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          userID,
		ShippingAddress: *user.Address,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      cart.ItemsPrice,
		ShippingPrice:   cart.ShippingPrice,
		TaxPrice:        cart.TaxPrice,
		TotalPrice:      cart.TotalPrice,
	}
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: cartItem.ProductID,
			Name:      cartItem.Name,
			Slug:      cartItem.Slug,
			Image:     cartItem.Image,
			UnitPrice: cartItem.UnitPrice,
			Quantity:  cartItem.Quantity,
		})
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if err := orderRepo.Create(order, items); err != nil {
			return ErrOrderCreateFailed
		}
		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return ErrOrderCreateFailed
		}
		zero := models.MustMoney("0")
		if err := cartRepo.UpdatePrices(cart.ID, zero, zero, zero, zero); err != nil {
			return ErrOrderCreateFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_placed",
		"order_no", order.OrderNo,
		"user_id", userID,
		"total_price", order.TotalPrice.String(),
	)
	return s.orderRepo.GetByID(order.ID)
}

// GetOrder 获取订单详情，仅订单归属用户或管理员可见
func (s *OrderService) GetOrder(orderID uint, requesterID uint, isAdmin bool) (*models.Order, error) {
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
	return order, nil
}

// ListMyOrders 分页获取用户自己的订单
func (s *OrderService) ListMyOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidParams
	}
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// ListOrders 管理端分页获取全部订单，支持按买家名称过滤
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// DeleteOrder 管理端删除订单
func (s *OrderService) DeleteOrder(orderID uint) error {
	if orderID == 0 {
		return ErrInvalidParams
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return s.orderRepo.Delete(orderID)
}

// MarkPaid 将订单置为已支付并扣减商品库存，两者在同一事务中完成。
// 已支付的订单重复调用返回 ErrOrderAlreadyPaid。paymentResult 允许为空，
// 货到付款订单由管理员手工确认时没有网关回执。
func (s *OrderService) MarkPaid(orderID uint, paymentResult *models.PaymentResult) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrInvalidParams
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.IsPaid {
			return ErrOrderAlreadyPaid
		}

		for _, item := range order.Items {
			if err := productRepo.DecrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"is_paid": true,
			"paid_at": &now,
		}
		if paymentResult != nil {
			updates["payment_result"] = paymentResult
		}
		return orderRepo.UpdateFields(order.ID, updates)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	logger.Infow("order_marked_paid",
		"order_no", order.OrderNo,
		"payment_method", order.PaymentMethod,
	)
	s.enqueueReceiptEmail(order)
	return order, nil
}

// MarkDelivered 将已支付订单置为已发货
func (s *OrderService) MarkDelivered(orderID uint) (*models.Order, error) {
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
	if !order.IsPaid {
		return nil, ErrOrderNotPaid
	}
	if order.IsDelivered {
		return nil, ErrOrderAlreadyDelivered
	}

	now := time.Now()
	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"is_delivered": true,
		"delivered_at": &now,
	}); err != nil {
		return nil, err
	}
	logger.Infow("order_marked_delivered", "order_no", order.OrderNo)
	return s.orderRepo.GetByID(order.ID)
}

func (s *OrderService) isPaymentMethodSupported(method string) bool {
	for _, m := range s.cfg.Payment.Methods {
		if strings.EqualFold(strings.TrimSpace(m), method) {
			return true
		}
	}
	return false
}

// enqueueReceiptEmail 支付成功后入队收据邮件任务，入队失败只记日志不影响主流程
func (s *OrderService) enqueueReceiptEmail(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() || order == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderReceiptEmail(queue.OrderReceiptEmailPayload{
		OrderID: order.ID,
	}); err != nil {
		logger.Warnw("order_receipt_email_enqueue_failed",
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("PS%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
