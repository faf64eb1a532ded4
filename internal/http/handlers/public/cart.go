package public

import (
	"strconv"

	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/i18n"
	"github.com/prostore-next/internal/models"

	"github.com/gin-gonic/gin"
)

// CartAddItemRequest 加入购物车请求
type CartAddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetCart 获取当前购物车
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.CartService.GetCart(cartOwner(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	if cart == nil {
		cart = &models.Cart{Items: []models.CartItem{}}
	}
	response.Success(c, cart)
}

// AddCartItem 添加商品到购物车（同商品累加数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartAddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	cart, product, err := h.CartService.AddItem(cartOwner(c), req.ProductID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "message.cart_item_added", product.Name), cart)
}

// RemoveCartItem 从购物车移除一件商品（数量减一，减到零删除该项）
func (h *Handler) RemoveCartItem(c *gin.Context) {
	rawID := c.Param("product_id")
	productID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	cart, product, rmErr := h.CartService.RemoveItem(cartOwner(c), uint(productID))
	if rmErr != nil {
		respondCartError(c, rmErr)
		return
	}

	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "message.cart_item_removed", product.Name), cart)
}
