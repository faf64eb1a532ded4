package repository

import (
	"errors"
	"strings"

	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryCount 分类及商品数量
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListLatest(limit int) ([]models.Product, error)
	ListFeatured(limit int) ([]models.Product, error)
	ListCategories() ([]CategoryCount, error)
	GetBySlug(slug string) (*models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID uint) (int64, error)
	DecrementStock(productID uint, quantity int) error
	UpdateRating(productID uint, rating decimal.Decimal, numReviews int) error
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 商品列表，支持搜索、分类、价格区间、评分与排序
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if search := strings.TrimSpace(filter.Query); search != "" {
		query = query.Where("name "+likeOperator(r.db)+" ?", "%"+search+"%")
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.PriceMin != "" {
		if min, err := decimal.NewFromString(filter.PriceMin); err == nil {
			query = query.Where("price >= ?", min)
		}
	}
	if filter.PriceMax != "" {
		if max, err := decimal.NewFromString(filter.PriceMax); err == nil {
			query = query.Where("price <= ?", max)
		}
	}
	if filter.RatingMin != "" {
		if rating, err := decimal.NewFromString(filter.RatingMin); err == nil {
			query = query.Where("rating >= ?", rating)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	switch filter.Sort {
	case constants.ProductSortPriceAsc:
		query = query.Order("price asc")
	case constants.ProductSortPriceDesc:
		query = query.Order("price desc")
	case constants.ProductSortRating:
		query = query.Order("rating desc")
	default:
		query = query.Order("created_at desc")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListLatest 获取最新上架的商品
func (r *GormProductRepository) ListLatest(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	var products []models.Product
	if err := r.db.Order("created_at desc").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListFeatured 获取精选商品
func (r *GormProductRepository) ListFeatured(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	var products []models.Product
	if err := r.db.Where("is_featured = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListCategories 获取分类及各分类下的商品数量
func (r *GormProductRepository) ListCategories() ([]CategoryCount, error) {
	rows := make([]CategoryCount, 0)
	if err := r.db.Model(&models.Product{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("category asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// CountBySlug 统计 slug 占用数量，excludeID 用于更新时排除自身
func (r *GormProductRepository) CountBySlug(slug string, excludeID uint) (int64, error) {
	query := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DecrementStock 扣减商品库存
func (r *GormProductRepository) DecrementStock(productID uint, quantity int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity)).Error
}

// UpdateRating 更新商品评分聚合
func (r *GormProductRepository) UpdateRating(productID uint, rating decimal.Decimal, numReviews int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating":      rating,
		"num_reviews": numReviews,
	}).Error
}
