package repository

import (
	"errors"

	"github.com/prostore-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReviewAggregate 商品评分聚合结果
type ReviewAggregate struct {
	AvgRating decimal.Decimal
	Count     int
}

// ReviewRepository 商品评价数据访问接口
type ReviewRepository interface {
	GetByUserAndProduct(userID, productID uint) (*models.Review, error)
	ListByProduct(productID uint) ([]models.Review, error)
	Save(review *models.Review) error
	AggregateByProduct(productID uint) (ReviewAggregate, error)
	WithTx(tx *gorm.DB) *GormReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) *GormReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// GetByUserAndProduct 获取用户对商品的评价
func (r *GormReviewRepository) GetByUserAndProduct(userID, productID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// ListByProduct 获取商品评价列表（最新在前）
func (r *GormReviewRepository) ListByProduct(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Save 创建或更新评价
func (r *GormReviewRepository) Save(review *models.Review) error {
	return r.db.Save(review).Error
}

// AggregateByProduct 计算商品平均评分与评价数量
func (r *GormReviewRepository) AggregateByProduct(productID uint) (ReviewAggregate, error) {
	var row struct {
		Avg   decimal.Decimal
		Count int
	}
	if err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("product_id = ?", productID).
		Scan(&row).Error; err != nil {
		return ReviewAggregate{}, err
	}
	return ReviewAggregate{AvgRating: row.Avg, Count: row.Count}, nil
}
