package public

import (
	"strconv"

	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/i18n"

	"github.com/gin-gonic/gin"
	handlershared "github.com/prostore-next/internal/http/handlers/shared"
)

// PlaceOrder 从购物车创建订单
func (h *Handler) PlaceOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.PlaceOrder(uid)
	if err != nil {
		respondPlaceOrderError(c, err)
		return
	}

	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.order_placed"), order)
}

// GetOrder 订单详情（本人或管理员）
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	order, getErr := h.OrderService.GetOrder(uint(orderID), uid, isAdmin(c))
	if getErr != nil {
		respondOrderAccessError(c, getErr)
		return
	}
	response.Success(c, order)
}

// ListMyOrders 我的订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListMyOrders(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"orders": orders}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
