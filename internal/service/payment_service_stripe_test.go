package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/payment/paypal"
	"github.com/prostore-next/internal/payment/stripe"
)

const stripeWebhookTestSecret = "whsec_test_secret"

func stripeSignedHeader(t *testing.T, body []byte, ts time.Time) string {
	t.Helper()
	payload := fmt.Sprintf("%d.%s", ts.Unix(), body)
	mac := hmac.New(sha256.New, []byte(stripeWebhookTestSecret))
	_, _ = mac.Write([]byte(payload))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func stripeSucceededEvent(orderNo string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_1",
		"type": "payment_intent.succeeded",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":              "pi_1",
				"status":          "succeeded",
				"currency":        "usd",
				"amount_received": 6750,
				"metadata":        map[string]interface{}{"order_no": orderNo},
				"receipt_email":   "buyer@example.com",
				"created":         time.Now().Unix(),
			},
		},
	})
	return body
}

func TestCreateStripeIntentStoresIntentID(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test_key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.PostFormValue("amount"); got != "6750" {
			t.Errorf("minor amount want 6750 got %s", got)
		}
		if got := r.PostFormValue("currency"); got != "usd" {
			t.Errorf("currency want usd got %s", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "pi_1",
			"client_secret": "pi_1_secret",
			"status":        "requires_payment_method",
			"currency":      "usd",
			"amount":        6750,
			"metadata":      map[string]interface{}{"order_no": r.PostFormValue("metadata[order_no]")},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	cfg.Payment.Stripe = config.StripeConfig{APIURL: server.URL, SecretKey: "sk_test_key"}
	order := seedPayableOrder(t, db, "Stripe", "67.50")

	result, err := svc.CreateStripeIntent(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("create stripe intent failed: %v", err)
	}
	if result.IntentID != "pi_1" || result.ClientSecret != "pi_1_secret" {
		t.Fatalf("unexpected intent result: %+v", result)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.PaymentResult == nil || reloaded.PaymentResult.ID != "pi_1" {
		t.Fatalf("expected intent snapshot, got: %+v", reloaded.PaymentResult)
	}
}

func TestCreateStripeIntentMethodMismatch(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	cfg.Payment.Stripe = config.StripeConfig{SecretKey: "sk_test_key"}
	order := seedPayableOrder(t, db, "PayPal", "67.50")

	if _, err := svc.CreateStripeIntent(context.Background(), order.ID, order.UserID, false); err != ErrPaymentMethodMismatch {
		t.Fatalf("expected ErrPaymentMethodMismatch, got: %v", err)
	}
}

func TestHandleStripeWebhookMarksPaid(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	cfg.Payment.Stripe = config.StripeConfig{SecretKey: "sk_test_key", WebhookSecret: stripeWebhookTestSecret}
	order := seedPayableOrder(t, db, "Stripe", "67.50")

	body := stripeSucceededEvent(order.OrderNo)
	header := stripeSignedHeader(t, body, time.Now())
	if err := svc.HandleStripeWebhook(header, body); err != nil {
		t.Fatalf("handle webhook failed: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !reloaded.IsPaid || reloaded.PaidAt == nil {
		t.Fatalf("expected order paid, got: %+v", reloaded)
	}
	if reloaded.PaymentResult == nil || reloaded.PaymentResult.ID != "pi_1" || reloaded.PaymentResult.EmailAddress != "buyer@example.com" {
		t.Fatalf("unexpected payment result: %+v", reloaded.PaymentResult)
	}
	if reloaded.PaymentResult.PricePaid != "67.50" {
		t.Fatalf("price paid want 67.50 got %s", reloaded.PaymentResult.PricePaid)
	}
}

func TestHandleStripeWebhookDuplicateDeliveryIsNoop(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	cfg.Payment.Stripe = config.StripeConfig{SecretKey: "sk_test_key", WebhookSecret: stripeWebhookTestSecret}
	order := seedPayableOrder(t, db, "Stripe", "67.50")

	body := stripeSucceededEvent(order.OrderNo)
	if err := svc.HandleStripeWebhook(stripeSignedHeader(t, body, time.Now()), body); err != nil {
		t.Fatalf("handle webhook failed: %v", err)
	}
	if err := svc.HandleStripeWebhook(stripeSignedHeader(t, body, time.Now()), body); err != nil {
		t.Fatalf("duplicate delivery should succeed, got: %v", err)
	}

	var item models.OrderItem
	if err := db.Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("load order item failed: %v", err)
	}
	var product models.Product
	if err := db.First(&product, item.ProductID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if product.Stock != 9 {
		t.Fatalf("stock should decrement once, want 9 got %d", product.Stock)
	}
}

func TestHandleStripeWebhookRejectsBadSignature(t *testing.T) {
	svc, cfg, _ := setupPaymentServiceTest(t)
	cfg.Payment.Stripe = config.StripeConfig{SecretKey: "sk_test_key", WebhookSecret: stripeWebhookTestSecret}

	body := stripeSucceededEvent("PS123456")
	header := fmt.Sprintf("t=%d,v1=%s", time.Now().Unix(), "deadbeef")
	if err := svc.HandleStripeWebhook(header, body); err != ErrPaymentVerifyFailed {
		t.Fatalf("expected ErrPaymentVerifyFailed, got: %v", err)
	}
}

func TestHandleStripeWebhookRejectsStaleTimestamp(t *testing.T) {
	svc, cfg, _ := setupPaymentServiceTest(t)
	cfg.Payment.Stripe = config.StripeConfig{SecretKey: "sk_test_key", WebhookSecret: stripeWebhookTestSecret}

	body := stripeSucceededEvent("PS123456")
	header := stripeSignedHeader(t, body, time.Now().Add(-10*time.Minute))
	if err := svc.HandleStripeWebhook(header, body); err != ErrPaymentVerifyFailed {
		t.Fatalf("expected ErrPaymentVerifyFailed, got: %v", err)
	}
}

func TestHandleStripeWebhookUnknownOrder(t *testing.T) {
	svc, cfg, _ := setupPaymentServiceTest(t)
	cfg.Payment.Stripe = config.StripeConfig{SecretKey: "sk_test_key", WebhookSecret: stripeWebhookTestSecret}

	body := stripeSucceededEvent("PS000000000000")
	if err := svc.HandleStripeWebhook(stripeSignedHeader(t, body, time.Now()), body); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestHandleStripeWebhookIgnoresOtherEvents(t *testing.T) {
	svc, cfg, _ := setupPaymentServiceTest(t)
	cfg.Payment.Stripe = config.StripeConfig{SecretKey: "sk_test_key", WebhookSecret: stripeWebhookTestSecret}

	body, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_2",
		"type": "payment_intent.created",
		"data": map[string]interface{}{
			"object": map[string]interface{}{"id": "pi_2", "status": "requires_payment_method"},
		},
	})
	if err := svc.HandleStripeWebhook(stripeSignedHeader(t, body, time.Now()), body); err != nil {
		t.Fatalf("unrelated events should be ignored, got: %v", err)
	}
}

func TestMapStripeError(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{stripe.ErrConfigInvalid, ErrPaymentConfigInvalid},
		{stripe.ErrSignatureInvalid, ErrPaymentVerifyFailed},
		{stripe.ErrRequestFailed, ErrPaymentRequestFailed},
		{stripe.ErrResponseInvalid, ErrPaymentResponseInvalid},
		{fmt.Errorf("boom"), ErrPaymentRequestFailed},
	}
	for _, tc := range cases {
		if got := mapStripeError(fmt.Errorf("wrap: %w", tc.in)); got != tc.want {
			t.Fatalf("mapStripeError(%v) want %v got %v", tc.in, tc.want, got)
		}
	}
}

func TestMapPayPalError(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{paypal.ErrConfigInvalid, ErrPaymentConfigInvalid},
		{paypal.ErrAuthFailed, ErrPaymentRequestFailed},
		{paypal.ErrRequestFailed, ErrPaymentRequestFailed},
		{paypal.ErrResponseInvalid, ErrPaymentResponseInvalid},
		{fmt.Errorf("boom"), ErrPaymentRequestFailed},
	}
	for _, tc := range cases {
		if got := mapPayPalError(fmt.Errorf("wrap: %w", tc.in)); got != tc.want {
			t.Fatalf("mapPayPalError(%v) want %v got %v", tc.in, tc.want, got)
		}
	}
}

func newStripeIntentQueryServer(t *testing.T, status string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/payment_intents/pi_1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk_test_key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":              "pi_1",
			"status":          status,
			"currency":        "usd",
			"amount_received": 6750,
		})
	})
	return httptest.NewServer(mux)
}

func TestSyncStripeIntentMarksPaidWhenSucceeded(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	server := newStripeIntentQueryServer(t, "succeeded")
	defer server.Close()
	cfg.Payment.Stripe = config.StripeConfig{APIURL: server.URL, SecretKey: "sk_test_key"}
	order := seedPayableOrder(t, db, "Stripe", "67.50")
	snapshot := &models.PaymentResult{ID: "pi_1", Status: "requires_payment_method"}
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("payment_result", snapshot).Error; err != nil {
		t.Fatalf("store intent snapshot failed: %v", err)
	}

	result, err := svc.SyncStripeIntent(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("sync stripe intent failed: %v", err)
	}
	if result.IntentID != "pi_1" || result.Status != "succeeded" {
		t.Fatalf("unexpected sync result: %+v", result)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !reloaded.IsPaid {
		t.Fatalf("order should be paid after sync")
	}
	if reloaded.PaymentResult == nil || reloaded.PaymentResult.PricePaid != "67.50" {
		t.Fatalf("unexpected payment result: %+v", reloaded.PaymentResult)
	}
}

func TestSyncStripeIntentPendingLeavesUnpaid(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	server := newStripeIntentQueryServer(t, "requires_payment_method")
	defer server.Close()
	cfg.Payment.Stripe = config.StripeConfig{APIURL: server.URL, SecretKey: "sk_test_key"}
	order := seedPayableOrder(t, db, "Stripe", "67.50")
	snapshot := &models.PaymentResult{ID: "pi_1", Status: "requires_payment_method"}
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("payment_result", snapshot).Error; err != nil {
		t.Fatalf("store intent snapshot failed: %v", err)
	}

	result, err := svc.SyncStripeIntent(context.Background(), order.ID, order.UserID, false)
	if err != nil {
		t.Fatalf("sync stripe intent failed: %v", err)
	}
	if result.Status != "requires_payment_method" {
		t.Fatalf("status want requires_payment_method got %s", result.Status)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.IsPaid {
		t.Fatalf("pending intent must not mark order paid")
	}
}

func TestSyncStripeIntentWithoutSnapshot(t *testing.T) {
	svc, cfg, db := setupPaymentServiceTest(t)
	cfg.Payment.Stripe = config.StripeConfig{SecretKey: "sk_test_key"}
	order := seedPayableOrder(t, db, "Stripe", "67.50")

	if _, err := svc.SyncStripeIntent(context.Background(), order.ID, order.UserID, false); err != ErrPaymentVerifyFailed {
		t.Fatalf("expected ErrPaymentVerifyFailed, got: %v", err)
	}
}
