package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/repository"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListProducts 管理端商品列表
func (h *Handler) AdminListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Query:    strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
		Sort:     strings.TrimSpace(c.Query("sort")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"products": products}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// AdminGetProduct 管理端商品详情
func (h *Handler) AdminGetProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	product, err := h.ProductService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, product)
}

// AdminCreateProduct 创建商品
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	product, err := h.ProductService.CreateProduct(input)
	if err != nil {
		respondProductSaveError(c, err)
		return
	}

	requestLog(c).Infow("admin_product_created", "product_id", product.ID, "slug", product.Slug)
	response.Success(c, product)
}

// AdminUpdateProduct 更新商品
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	product, err := h.ProductService.UpdateProduct(id, input)
	if err != nil {
		respondProductSaveError(c, err)
		return
	}

	requestLog(c).Infow("admin_product_updated", "product_id", product.ID, "slug", product.Slug)
	response.Success(c, product)
}

// AdminDeleteProduct 删除商品
func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	if err := h.ProductService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	requestLog(c).Infow("admin_product_deleted", "product_id", id)
	response.Success(c, gin.H{"deleted": true})
}

func respondProductSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeConflict, "error.slug_taken", nil)
	case errors.Is(err, service.ErrInvalidParams):
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
