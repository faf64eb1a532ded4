package service

import (
	"context"
	"strings"
	"time"

	"github.com/prostore-next/internal/cache"
	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"
)

const (
	featuredProductsCacheKey = "products:featured"
	featuredProductsCacheTTL = 5 * time.Minute
)

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListProducts 商品搜索列表，支持关键字、分类、价格区间、评分与排序
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// ListLatest 最新上架商品
func (s *ProductService) ListLatest(limit int) ([]models.Product, error) {
	return s.productRepo.ListLatest(limit)
}

// ListFeatured 精选商品，读多写少，经 Redis 缓存
func (s *ProductService) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	if cache.Enabled() {
		var cached []models.Product
		hit, err := cache.GetJSON(ctx, featuredProductsCacheKey, &cached)
		if err != nil {
			logger.Warnw("featured_products_cache_read_failed", "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	products, err := s.productRepo.ListFeatured(limit)
	if err != nil {
		return nil, err
	}

	if cache.Enabled() {
		if err := cache.SetJSON(ctx, featuredProductsCacheKey, products, featuredProductsCacheTTL); err != nil {
			logger.Warnw("featured_products_cache_write_failed", "error", err)
		}
	}
	return products, nil
}

// ListCategories 分类及各分类商品数
func (s *ProductService) ListCategories() ([]repository.CategoryCount, error) {
	return s.productRepo.ListCategories()
}

// GetProductBySlug 按标识获取商品详情
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvalidParams
	}
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProductByID 按 ID 获取商品详情
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidParams
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductInput 管理端商品创建与更新输入
type ProductInput struct {
	Name        string             `json:"name" binding:"required"`
	Slug        string             `json:"slug" binding:"required"`
	Category    string             `json:"category" binding:"required"`
	Brand       string             `json:"brand" binding:"required"`
	Description string             `json:"description"`
	Images      models.StringArray `json:"images"`
	Price       models.Money       `json:"price"`
	Stock       int                `json:"stock"`
	IsFeatured  bool               `json:"is_featured"`
	Banner      string             `json:"banner"`
}

// CreateProduct 管理端创建商品，slug 必须唯一
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	slug := strings.TrimSpace(input.Slug)
	if strings.TrimSpace(input.Name) == "" || slug == "" {
		return nil, ErrInvalidParams
	}
	count, err := s.productRepo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Category:    strings.TrimSpace(input.Category),
		Brand:       strings.TrimSpace(input.Brand),
		Description: input.Description,
		Images:      input.Images,
		Price:       input.Price,
		Stock:       input.Stock,
		IsFeatured:  input.IsFeatured,
		Banner:      strings.TrimSpace(input.Banner),
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.invalidateFeaturedCache()
	logger.Infow("product_created", "slug", product.Slug)
	return product, nil
}

// UpdateProduct 管理端更新商品，slug 改动时仍需唯一
func (s *ProductService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidParams
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	if strings.TrimSpace(input.Name) == "" || slug == "" {
		return nil, ErrInvalidParams
	}
	count, err := s.productRepo.CountBySlug(slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Slug = slug
	product.Category = strings.TrimSpace(input.Category)
	product.Brand = strings.TrimSpace(input.Brand)
	product.Description = input.Description
	product.Images = input.Images
	product.Price = input.Price
	product.Stock = input.Stock
	product.IsFeatured = input.IsFeatured
	product.Banner = strings.TrimSpace(input.Banner)

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.invalidateFeaturedCache()
	logger.Infow("product_updated", "slug", product.Slug)
	return product, nil
}

// DeleteProduct 管理端删除商品
func (s *ProductService) DeleteProduct(id uint) error {
	if id == 0 {
		return ErrInvalidParams
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateFeaturedCache()
	logger.Infow("product_deleted", "slug", product.Slug)
	return nil
}

func (s *ProductService) invalidateFeaturedCache() {
	if !cache.Enabled() {
		return
	}
	if err := cache.Del(context.Background(), featuredProductsCacheKey); err != nil {
		logger.Warnw("featured_products_cache_invalidate_failed", "error", err)
	}
}
