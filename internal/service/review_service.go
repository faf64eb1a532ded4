package service

import (
	"strings"

	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"

	"gorm.io/gorm"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// ReviewInput 评价提交输入
type ReviewInput struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// SaveReview 提交评价。同一用户对同一商品只保留一条评价，
// 重复提交视为更新。评价落库与商品平均评分、评价数的重算在
// 同一事务中完成。
func (s *ReviewService) SaveReview(userID uint, input ReviewInput) (*models.Review, error) {
	if userID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidParams
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewRatingInvalid
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, ErrInvalidParams
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	var saved *models.Review
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		review, err := reviewRepo.GetByUserAndProduct(userID, input.ProductID)
		if err != nil {
			return err
		}
		if review == nil {
			review = &models.Review{
				UserID:    userID,
				ProductID: input.ProductID,
			}
		}
		review.Rating = input.Rating
		review.Title = title
		review.Description = description

		if err := reviewRepo.Save(review); err != nil {
			return ErrReviewSaveFailed
		}

		aggregate, err := reviewRepo.AggregateByProduct(input.ProductID)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateRating(input.ProductID, aggregate.AvgRating, aggregate.Count); err != nil {
			return ErrReviewSaveFailed
		}

		saved = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("review_saved",
		"product_id", input.ProductID,
		"user_id", userID,
		"rating", input.Rating,
	)
	return saved, nil
}

// ListReviews 商品评价列表，按创建时间倒序
func (s *ReviewService) ListReviews(productID uint) ([]models.Review, error) {
	if productID == 0 {
		return nil, ErrInvalidParams
	}
	return s.reviewRepo.ListByProduct(productID)
}

// GetMyReview 获取用户对商品的评价，未评价时返回 nil
func (s *ReviewService) GetMyReview(userID, productID uint) (*models.Review, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidParams
	}
	return s.reviewRepo.GetByUserAndProduct(userID, productID)
}
