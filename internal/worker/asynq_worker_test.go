package worker

import (
	"fmt"
	"testing"
	"time"

	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/provider"
	"github.com/prostore-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupWorkerTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	container := &provider.Container{
		UserRepo:  repository.NewUserRepository(db),
		OrderRepo: repository.NewOrderRepository(db),
	}
	return NewConsumer(container), db
}

func TestResolveReceiptReceiverPrefersPreloadedUser(t *testing.T) {
	consumer, _ := setupWorkerTestConsumer(t)

	order := &models.Order{
		UserID: 7,
		User:   &models.User{Email: "  jane@example.com  "},
	}
	if got := resolveReceiptReceiver(consumer, order); got != "jane@example.com" {
		t.Fatalf("receiver want jane@example.com got %q", got)
	}
}

func TestResolveReceiptReceiverFallsBackToUserTable(t *testing.T) {
	consumer, db := setupWorkerTestConsumer(t)

	user := models.User{Name: "Steve", Email: "steve@example.com", PasswordHash: "x", Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	order := &models.Order{UserID: user.ID}
	if got := resolveReceiptReceiver(consumer, order); got != "steve@example.com" {
		t.Fatalf("receiver want steve@example.com got %q", got)
	}
}

func TestResolveReceiptReceiverEmptyWhenUserMissing(t *testing.T) {
	consumer, _ := setupWorkerTestConsumer(t)

	if got := resolveReceiptReceiver(consumer, &models.Order{UserID: 0}); got != "" {
		t.Fatalf("expected empty receiver for anonymous order, got %q", got)
	}
	if got := resolveReceiptReceiver(consumer, &models.Order{UserID: 9999}); got != "" {
		t.Fatalf("expected empty receiver for missing user, got %q", got)
	}
}
