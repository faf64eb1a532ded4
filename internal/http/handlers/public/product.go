package public

import (
	"strconv"
	"strings"

	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/repository"

	"github.com/gin-gonic/gin"
	handlershared "github.com/prostore-next/internal/http/handlers/shared"
)

const (
	latestProductsLimit   = 4
	featuredProductsLimit = 4
)

// ListProducts 商品搜索/筛选列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "12"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:      page,
		PageSize:  pageSize,
		Query:     strings.TrimSpace(c.Query("q")),
		Category:  strings.TrimSpace(c.Query("category")),
		PriceMin:  strings.TrimSpace(c.Query("price_min")),
		PriceMax:  strings.TrimSpace(c.Query("price_max")),
		RatingMin: strings.TrimSpace(c.Query("rating_min")),
		Sort:      strings.TrimSpace(c.Query("sort")),
	}

	products, total, err := h.ProductService.ListProducts(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, gin.H{"products": products}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// ListLatestProducts 最新上架商品
func (h *Handler) ListLatestProducts(c *gin.Context) {
	products, err := h.ProductService.ListLatest(latestProductsLimit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"products": products})
}

// ListFeaturedProducts 精选商品（轮播）
func (h *Handler) ListFeaturedProducts(c *gin.Context) {
	products, err := h.ProductService.ListFeatured(c.Request.Context(), featuredProductsLimit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"products": products})
}

// ListCategories 商品分类及数量
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.ProductService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// GetProductBySlug 商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	product, err := h.ProductService.GetProductBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}
