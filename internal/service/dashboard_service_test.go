package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDashboardServiceTest(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:dashboard_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewDashboardService(repository.NewDashboardRepository(db)), db
}

func TestDashboardSummaryAggregates(t *testing.T) {
	svc, db := setupDashboardServiceTest(t)

	user := models.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "x", Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		product := models.Product{
			Name:     fmt.Sprintf("Shirt %d", i),
			Slug:     fmt.Sprintf("dash-shirt-%d", i),
			Category: "Men's Dress Shirts",
			Brand:    "Polo",
			Price:    models.MustMoney("25.00"),
			Stock:    5,
		}
		if err := db.Create(&product).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	totals := []string{"40.00", "60.50", "99.50"}
	for i, total := range totals {
		order := models.Order{
			OrderNo:       fmt.Sprintf("PSDASH%d", i),
			UserID:        user.ID,
			PaymentMethod: "PayPal",
			TotalPrice:    models.MustMoney(total),
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	summary, err := svc.GetSummary()
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if summary.OrdersCount != 3 || summary.ProductsCount != 2 || summary.UsersCount != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.TotalSales.String() != "200.00" {
		t.Fatalf("total sales want 200.00 got %s", summary.TotalSales.String())
	}
	if len(summary.LatestOrders) != 3 {
		t.Fatalf("latest orders want 3 got %d", len(summary.LatestOrders))
	}
	if len(summary.MonthlySales) == 0 {
		t.Fatalf("expected monthly sales rows")
	}
	if !summary.MonthlySales[0].TotalSales.Equal(models.MustMoney("200").Decimal) {
		t.Fatalf("monthly sales want 200 got %s", summary.MonthlySales[0].TotalSales.String())
	}
}

func TestDashboardSummaryLimitsLatestOrders(t *testing.T) {
	svc, db := setupDashboardServiceTest(t)

	for i := 0; i < 8; i++ {
		order := models.Order{
			OrderNo:       fmt.Sprintf("PSLIMIT%d", i),
			UserID:        1,
			PaymentMethod: "Stripe",
			TotalPrice:    models.MustMoney("10.00"),
			CreatedAt:     time.Now().Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	summary, err := svc.GetSummary()
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if len(summary.LatestOrders) != 6 {
		t.Fatalf("latest orders want 6 got %d", len(summary.LatestOrders))
	}
	if summary.LatestOrders[0].OrderNo != "PSLIMIT7" {
		t.Fatalf("latest order first want PSLIMIT7 got %s", summary.LatestOrders[0].OrderNo)
	}
}

func TestDashboardSummaryEmptyDatabase(t *testing.T) {
	svc, _ := setupDashboardServiceTest(t)

	summary, err := svc.GetSummary()
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if summary.OrdersCount != 0 || summary.ProductsCount != 0 || summary.UsersCount != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if !summary.TotalSales.IsZero() {
		t.Fatalf("total sales want 0 got %s", summary.TotalSales.String())
	}
	if len(summary.LatestOrders) != 0 {
		t.Fatalf("latest orders want empty got %d", len(summary.LatestOrders))
	}
}
