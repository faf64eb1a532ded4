package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/i18n"
	"github.com/prostore-next/internal/repository"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    userID,
		BuyerName: strings.TrimSpace(c.Query("buyer")),
	})
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

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	order, err := h.OrderService.GetOrder(id, operatorID, true)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// AdminMarkOrderPaid 标记订单已支付（货到付款场景的人工确认）
func (h *Handler) AdminMarkOrderPaid(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	order, err := h.OrderService.MarkPaid(id, nil)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}

	requestLog(c).Infow("admin_order_marked_paid", "order_id", order.ID, "order_no", order.OrderNo)
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.order_paid"), order)
}

// AdminMarkOrderDelivered 标记订单已发货
func (h *Handler) AdminMarkOrderDelivered(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	order, err := h.OrderService.MarkDelivered(id)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}

	requestLog(c).Infow("admin_order_marked_delivered", "order_id", order.ID, "order_no", order.OrderNo)
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.order_delivered"), order)
}

// AdminDeleteOrder 删除订单
func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	if err := h.OrderService.DeleteOrder(id); err != nil {
		respondAdminOrderError(c, err)
		return
	}

	requestLog(c).Infow("admin_order_deleted", "order_id", id)
	response.Success(c, gin.H{"deleted": true})
}

func respondAdminOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
	case errors.Is(err, service.ErrOrderAlreadyPaid):
		respondError(c, response.CodeConflict, "error.order_already_paid", nil)
	case errors.Is(err, service.ErrOrderNotPaid):
		respondError(c, response.CodeBadRequest, "error.order_not_paid", nil)
	case errors.Is(err, service.ErrOrderAlreadyDelivered):
		respondError(c, response.CodeConflict, "error.order_already_delivered", nil)
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(c, response.CodeBadRequest, "error.insufficient_stock", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
