package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func cartServiceTestConfig() *config.Config {
	return &config.Config{
		Cart: config.CartConfig{
			FreeShippingThreshold: "100",
			ShippingPrice:         "10",
			TaxRate:               "0.15",
		},
	}
}

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewCartService(cartServiceTestConfig(), repository.NewCartRepository(db), repository.NewProductRepository(db))
	return svc, db
}

func seedCartProduct(t *testing.T, db *gorm.DB, slug string, price string, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:     "Product " + slug,
		Slug:     slug,
		Category: "Men's Dress Shirts",
		Brand:    "Polo",
		Price:    models.MustMoney(price),
		Stock:    stock,
		Images:   models.StringArray([]string{"/uploads/" + slug + ".jpg"}),
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func TestCartAddItemCreatesCartAndRecalculates(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := seedCartProduct(t, db, "polo-shirt", "25.00", 5)

	owner := CartOwner{SessionCartID: "session-add-1"}
	cart, got, err := svc.AddItem(owner, product.ID)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if got.ID != product.ID {
		t.Fatalf("product id want %d got %d", product.ID, got.ID)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("unexpected cart items: %+v", cart.Items)
	}
	// 25.00 + 运费 10 + 税 3.75
	if gotTotal := cart.TotalPrice.String(); gotTotal != "38.75" {
		t.Fatalf("total price want 38.75 got %s", gotTotal)
	}
}

func TestCartAddItemIncrementsQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := seedCartProduct(t, db, "polo-shirt", "25.00", 5)

	owner := CartOwner{SessionCartID: "session-add-2"}
	if _, _, err := svc.AddItem(owner, product.ID); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	cart, _, err := svc.AddItem(owner, product.ID)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart items: %+v", cart.Items)
	}
}

func TestCartAddItemRespectsStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := seedCartProduct(t, db, "scarce-shirt", "25.00", 1)

	owner := CartOwner{SessionCartID: "session-add-3"}
	if _, _, err := svc.AddItem(owner, product.ID); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, _, err := svc.AddItem(owner, product.ID); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	svc, _ := setupCartServiceTest(t)
	owner := CartOwner{SessionCartID: "session-add-4"}
	if _, _, err := svc.AddItem(owner, 999); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestCartRemoveItemDecrementsThenDeletes(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := seedCartProduct(t, db, "polo-shirt", "25.00", 5)

	owner := CartOwner{SessionCartID: "session-remove-1"}
	for i := 0; i < 2; i++ {
		if _, _, err := svc.AddItem(owner, product.ID); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	cart, _, err := svc.RemoveItem(owner, product.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("unexpected cart items after decrement: %+v", cart.Items)
	}

	cart, _, err = svc.RemoveItem(owner, product.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got: %+v", cart.Items)
	}
	// 空购物车商品金额为 0，运费按规则仍为 10
	if got := cart.ItemsPrice.String(); got != "0.00" {
		t.Fatalf("items price want 0.00 got %s", got)
	}

	if _, _, err := svc.RemoveItem(owner, product.ID); err != ErrCartItemNotFound {
		t.Fatalf("expected ErrCartItemNotFound, got: %v", err)
	}
}

func TestCartMergeOnSignInAdoptsSessionCart(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := seedCartProduct(t, db, "polo-shirt", "25.00", 5)

	owner := CartOwner{SessionCartID: "session-merge-1"}
	if _, _, err := svc.AddItem(owner, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svc.MergeOnSignIn("session-merge-1", 42); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	cart, err := svc.GetCart(CartOwner{UserID: 42})
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart == nil || cart.UserID == nil || *cart.UserID != 42 {
		t.Fatalf("expected cart owned by user 42, got: %+v", cart)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected merged cart to keep items, got: %+v", cart.Items)
	}
}

func TestCartMergeOnSignInReplacesUserCart(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	first := seedCartProduct(t, db, "old-shirt", "15.00", 5)
	second := seedCartProduct(t, db, "new-shirt", "35.00", 5)

	userOwner := CartOwner{UserID: 7, SessionCartID: "session-user-7"}
	if _, _, err := svc.AddItem(userOwner, first.ID); err != nil {
		t.Fatalf("seed user cart failed: %v", err)
	}

	guestOwner := CartOwner{SessionCartID: "session-guest-7"}
	if _, _, err := svc.AddItem(guestOwner, second.ID); err != nil {
		t.Fatalf("seed guest cart failed: %v", err)
	}

	if err := svc.MergeOnSignIn("session-guest-7", 7); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	cart, err := svc.GetCart(CartOwner{UserID: 7})
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart == nil || len(cart.Items) != 1 {
		t.Fatalf("expected single cart after merge, got: %+v", cart)
	}
	if cart.Items[0].ProductID != second.ID {
		t.Fatalf("expected session cart to win, got product %d", cart.Items[0].ProductID)
	}
}

func TestCartMergeOnSignInNoSessionCart(t *testing.T) {
	svc, _ := setupCartServiceTest(t)
	if err := svc.MergeOnSignIn("missing-session", 9); err != nil {
		t.Fatalf("merge without session cart should be a no-op, got: %v", err)
	}
}
