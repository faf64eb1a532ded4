package repository

import (
	"testing"
	"time"

	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupDashboardRepositoryTest(t *testing.T) (*GormDashboardRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewDashboardRepository(db), db
}

func createDashboardOrder(t *testing.T, db *gorm.DB, orderNo string, userID uint, total string, createdAt time.Time) {
	t.Helper()
	order := &models.Order{
		OrderNo:       orderNo,
		UserID:        userID,
		PaymentMethod: constants.PaymentMethodPayPal,
		TotalPrice:    models.MustMoney(total),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := db.Model(order).UpdateColumn("created_at", createdAt).Error; err != nil {
		t.Fatalf("set created_at failed: %v", err)
	}
}

func TestDashboardCountsAndTotalSales(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)

	user := &models.User{Name: "Buyer", Email: "buyer@example.com", PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := db.Create(&models.Product{Name: "P", Slug: "p", Category: "C", Brand: "B"}).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	now := time.Now()
	createDashboardOrder(t, db, "PS-1", user.ID, "96.25", now)
	createDashboardOrder(t, db, "PS-2", user.ID, "138.00", now)

	counts, err := repo.GetCounts()
	if err != nil {
		t.Fatalf("get counts failed: %v", err)
	}
	if counts.OrdersCount != 2 || counts.ProductsCount != 1 || counts.UsersCount != 1 {
		t.Fatalf("counts mismatch: %+v", counts)
	}

	total, err := repo.GetTotalSales()
	if err != nil {
		t.Fatalf("get total sales failed: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("234.25")) {
		t.Fatalf("total sales want 234.25 got %s", total)
	}
}

func TestDashboardMonthlySales(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)

	user := &models.User{Name: "Buyer", Email: "buyer@example.com", PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	jan := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)
	createDashboardOrder(t, db, "PS-1", user.ID, "100.00", jan)
	createDashboardOrder(t, db, "PS-2", user.ID, "50.00", jan)
	createDashboardOrder(t, db, "PS-3", user.ID, "75.00", feb)

	rows, err := repo.GetMonthlySales()
	if err != nil {
		t.Fatalf("get monthly sales failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("monthly rows want 2 got %d", len(rows))
	}
	if rows[0].Month != "2026-02" || !rows[0].TotalSales.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("latest month mismatch: %+v", rows[0])
	}
	if rows[1].Month != "2026-01" || !rows[1].TotalSales.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("january aggregate mismatch: %+v", rows[1])
	}
}

func TestDashboardLatestOrdersLimit(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)

	user := &models.User{Name: "Buyer", Email: "buyer@example.com", PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	base := time.Now().Add(-10 * time.Hour)
	for i := 0; i < 8; i++ {
		createDashboardOrder(t, db, "PS-"+string(rune('A'+i)), user.ID, "10.00", base.Add(time.Duration(i)*time.Hour))
	}

	orders, err := repo.GetLatestOrders(6)
	if err != nil {
		t.Fatalf("get latest orders failed: %v", err)
	}
	if len(orders) != 6 {
		t.Fatalf("latest orders len want 6 got %d", len(orders))
	}
	if orders[0].User == nil || orders[0].User.Name != "Buyer" {
		t.Fatalf("latest order should preload user")
	}
}
