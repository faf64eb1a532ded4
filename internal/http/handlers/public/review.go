package public

import (
	"strconv"

	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/i18n"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SaveReview 提交或更新商品评价（同一用户同一商品仅保留一条）
func (h *Handler) SaveReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var input service.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	review, err := h.ReviewService.SaveReview(uid, input)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.review_saved"), review)
}

// ListProductReviews 商品评价列表
func (h *Handler) ListProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	reviews, listErr := h.ReviewService.ListReviews(uint(productID))
	if listErr != nil {
		respondError(c, response.CodeInternal, "error.internal", listErr)
		return
	}
	response.Success(c, gin.H{"reviews": reviews})
}

// GetMyProductReview 当前用户对某商品的评价
func (h *Handler) GetMyProductReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	review, getErr := h.ReviewService.GetMyReview(uid, uint(productID))
	if getErr != nil {
		respondError(c, response.CodeInternal, "error.internal", getErr)
		return
	}
	response.Success(c, gin.H{"review": review})
}
