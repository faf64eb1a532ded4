package repository

import (
	"testing"

	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate product failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, name, slug, category, price string, featured bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:       name,
		Slug:       slug,
		Category:   category,
		Brand:      "Acme",
		Price:      models.MustMoney(price),
		Stock:      10,
		IsFeatured: featured,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductListFiltersAndSort(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createTestProduct(t, repo, "Polo Classic Shirt", "polo-classic", "Mens Shirts", "25.00", false)
	createTestProduct(t, repo, "Canvas Sneakers", "canvas-sneakers", "Mens Shoes", "60.00", false)
	createTestProduct(t, repo, "Polo Slim Shirt", "polo-slim", "Mens Shirts", "99.00", true)

	products, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Query: "polo"})
	if err != nil {
		t.Fatalf("list by query failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("query filter want 2 got total=%d len=%d", total, len(products))
	}

	products, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, Category: "Mens Shoes"})
	if err != nil {
		t.Fatalf("list by category failed: %v", err)
	}
	if total != 1 || products[0].Slug != "canvas-sneakers" {
		t.Fatalf("category filter mismatch: total=%d", total)
	}

	products, _, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, Sort: constants.ProductSortPriceAsc})
	if err != nil {
		t.Fatalf("list by price asc failed: %v", err)
	}
	if products[0].Slug != "polo-classic" || products[len(products)-1].Slug != "polo-slim" {
		t.Fatalf("price asc order mismatch: first=%s last=%s", products[0].Slug, products[len(products)-1].Slug)
	}

	products, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, PriceMin: "50", PriceMax: "100"})
	if err != nil {
		t.Fatalf("list by price range failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("price range filter want 2 got %d", total)
	}
}

func TestProductListPagination(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createTestProduct(t, repo, "A", "a", "C", "10.00", false)
	createTestProduct(t, repo, "B", "b", "C", "11.00", false)
	createTestProduct(t, repo, "C", "c", "C", "12.00", false)

	products, total, err := repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	if len(products) != 1 {
		t.Fatalf("page 2 len want 1 got %d", len(products))
	}
}

func TestProductListFeatured(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createTestProduct(t, repo, "Plain", "plain", "C", "10.00", false)
	createTestProduct(t, repo, "Hero", "hero", "C", "20.00", true)

	products, err := repo.ListFeatured(4)
	if err != nil {
		t.Fatalf("list featured failed: %v", err)
	}
	if len(products) != 1 || products[0].Slug != "hero" {
		t.Fatalf("featured mismatch: len=%d", len(products))
	}
}

func TestProductCountBySlugExcludesSelf(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "Polo", "polo", "C", "10.00", false)

	count, err := repo.CountBySlug("polo", 0)
	if err != nil {
		t.Fatalf("count by slug failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}

	count, err = repo.CountBySlug("polo", product.ID)
	if err != nil {
		t.Fatalf("count by slug with exclude failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count with exclude want 0 got %d", count)
	}
}

func TestProductDecrementStock(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "Polo", "polo", "C", "10.00", false)

	if err := repo.DecrementStock(product.ID, 3); err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	updated, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if updated.Stock != 7 {
		t.Fatalf("stock want 7 got %d", updated.Stock)
	}
}

func TestProductListCategories(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createTestProduct(t, repo, "A", "a", "Shirts", "10.00", false)
	createTestProduct(t, repo, "B", "b", "Shirts", "11.00", false)
	createTestProduct(t, repo, "C", "c", "Shoes", "12.00", false)

	rows, err := repo.ListCategories()
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("categories len want 2 got %d", len(rows))
	}
	if rows[0].Category != "Shirts" || rows[0].Count != 2 {
		t.Fatalf("category row mismatch: %+v", rows[0])
	}
}

func TestProductUpdateRating(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, "Polo", "polo", "C", "10.00", false)

	if err := repo.UpdateRating(product.ID, decimal.RequireFromString("4.5"), 2); err != nil {
		t.Fatalf("update rating failed: %v", err)
	}
	updated, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if !updated.Rating.Equal(decimal.RequireFromString("4.5")) || updated.NumReviews != 2 {
		t.Fatalf("rating aggregate mismatch: rating=%s num=%d", updated.Rating, updated.NumReviews)
	}
}
