package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *config.Config, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := orderServiceTestConfig()
	orderRepo := repository.NewOrderRepository(db)
	orderSvc := NewOrderService(cfg, orderRepo, repository.NewCartRepository(db), repository.NewProductRepository(db), repository.NewUserRepository(db), nil)
	svc := NewPaymentService(cfg, orderRepo, orderSvc)
	return svc, cfg, db
}

func seedPayableOrder(t *testing.T, db *gorm.DB, method string, total string) *models.Order {
	t.Helper()
	product := seedCartProduct(t, db, fmt.Sprintf("pay-shirt-%d", time.Now().UnixNano()), "25.00", 10)
	order := models.Order{
		OrderNo:       fmt.Sprintf("PS%d", time.Now().UnixNano()),
		UserID:        1,
		PaymentMethod: method,
		TotalPrice:    models.MustMoney(total),
		ShippingAddress: models.Address{
			FullName:      "Buyer",
			StreetAddress: "1 Main St",
			City:          "Springfield",
			PostalCode:    "12345",
			Country:       "US",
		},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := models.OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		UnitPrice: product.Price,
		Quantity:  1,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	return &order
}

func newPayPalGateway(t *testing.T, captureStatus string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if user, _, ok := r.BasicAuth(); !ok || user == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "test-token"})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PAYPAL-ORDER-1",
			"status": "CREATED",
		})
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/capture") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PAYPAL-ORDER-1",
			"status": captureStatus,
			"payer":  map[string]interface{}{"email_address": "buyer@example.com"},
			"purchase_units": []map[string]interface{}{
				{
					"payments": map[string]interface{}{
						"captures": []map[string]interface{}{
							{
								"id":     "CAPTURE-1",
								"amount": map[string]interface{}{"value": "67.50", "currency_code": "USD"},
							},
						},
					},
				},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestCreatePayPalOrderStoresGatewayID(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	server := newPayPalGateway(t, "COMPLETED")
	defer server.Close()
	cfg.Payment.PayPal = config.PayPalConfig{
		APIURL:       server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
	order := seedPayableOrder(t, db, "PayPal", "67.50")

	result, err := svc.CreatePayPalOrder(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("create paypal order failed: %v", err)
	}
	if result.PayPalOrderID != "PAYPAL-ORDER-1" {
		t.Fatalf("paypal order id want PAYPAL-ORDER-1 got %s", result.PayPalOrderID)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentResult == nil || reloaded.PaymentResult.ID != "PAYPAL-ORDER-1" {
		t.Fatalf("expected gateway id snapshot, got: %+v", reloaded.PaymentResult)
	}
}

func TestApprovePayPalOrderMarksPaid(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	server := newPayPalGateway(t, "COMPLETED")
	defer server.Close()
	cfg.Payment.PayPal = config.PayPalConfig{
		APIURL:       server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
	order := seedPayableOrder(t, db, "PayPal", "67.50")

	if _, err := svc.CreatePayPalOrder(context.Background(), order.ID, order.UserID, false); err != nil {
		t.Fatalf("create paypal order failed: %v", err)
	}

	paid, err := svc.ApprovePayPalOrder(context.Background(), order.ID, order.UserID, false, "PAYPAL-ORDER-1")
	if err != nil {
		t.Fatalf("approve paypal order failed: %v", err)
	}
	if !paid.IsPaid || paid.PaymentResult == nil || paid.PaymentResult.EmailAddress != "buyer@example.com" {
		t.Fatalf("unexpected paid order: %+v", paid)
	}

	if _, err := svc.ApprovePayPalOrder(context.Background(), order.ID, order.UserID, false, "PAYPAL-ORDER-1"); err != ErrOrderAlreadyPaid {
		t.Fatalf("expected ErrOrderAlreadyPaid, got: %v", err)
	}
}

func TestApprovePayPalOrderRejectsMismatchedGatewayID(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	server := newPayPalGateway(t, "COMPLETED")
	defer server.Close()
	cfg.Payment.PayPal = config.PayPalConfig{
		APIURL:       server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
	order := seedPayableOrder(t, db, "PayPal", "67.50")

	if _, err := svc.CreatePayPalOrder(context.Background(), order.ID, order.UserID, false); err != nil {
		t.Fatalf("create paypal order failed: %v", err)
	}
	if _, err := svc.ApprovePayPalOrder(context.Background(), order.ID, order.UserID, false, "OTHER-ID"); err != ErrPaymentVerifyFailed {
		t.Fatalf("expected ErrPaymentVerifyFailed, got: %v", err)
	}
}

func TestApprovePayPalOrderRejectsIncompleteCapture(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	server := newPayPalGateway(t, "PENDING")
	defer server.Close()
	cfg.Payment.PayPal = config.PayPalConfig{
		APIURL:       server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
	order := seedPayableOrder(t, db, "PayPal", "67.50")

	if _, err := svc.CreatePayPalOrder(context.Background(), order.ID, order.UserID, false); err != nil {
		t.Fatalf("create paypal order failed: %v", err)
	}
	if _, err := svc.ApprovePayPalOrder(context.Background(), order.ID, order.UserID, false, "PAYPAL-ORDER-1"); err != ErrPaymentVerifyFailed {
		t.Fatalf("expected ErrPaymentVerifyFailed, got: %v", err)
	}
}

func TestCreatePayPalOrderGuards(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	cfg.Payment.PayPal = config.PayPalConfig{ClientID: "client-id", ClientSecret: "client-secret"}

	stripeOrder := seedPayableOrder(t, db, "Stripe", "67.50")
	if _, err := svc.CreatePayPalOrder(context.Background(), stripeOrder.ID, stripeOrder.UserID, false); err != ErrPaymentMethodMismatch {
		t.Fatalf("expected ErrPaymentMethodMismatch, got: %v", err)
	}

	order := seedPayableOrder(t, db, "PayPal", "67.50")
	if _, err := svc.CreatePayPalOrder(context.Background(), order.ID, order.UserID+1, false); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
	if _, err := svc.CreatePayPalOrder(context.Background(), 99999, order.UserID, false); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestCreatePayPalOrderConfigInvalid(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	cfg.Payment.PayPal = config.PayPalConfig{}
	order := seedPayableOrder(t, db, "PayPal", "67.50")

	if _, err := svc.CreatePayPalOrder(context.Background(), order.ID, order.UserID, false); err != ErrPaymentConfigInvalid {
		t.Fatalf("expected ErrPaymentConfigInvalid, got: %v", err)
	}
}
