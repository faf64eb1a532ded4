package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/prostore-next/internal/authz"
	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/repository"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminUserUpdateRequest 管理端用户更新请求
type AdminUserUpdateRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

// AdminListUsers 管理端用户列表
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	users, total, err := h.UserAuthService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Query:    strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"users": users}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// AdminGetUser 管理端用户详情
func (h *Handler) AdminGetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	user, err := h.UserAuthService.GetProfile(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, user)
}

// AdminUpdateUser 管理端更新用户昵称与角色，角色变更同步授权策略
func (h *Handler) AdminUpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}
	var req AdminUserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	user, err := h.UserAuthService.UpdateUser(id, req.Name, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrInvalidParams):
			respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.syncUserAuthzRoles(c, user.ID, user.Role)
	requestLog(c).Infow("admin_user_updated", "user_id", user.ID, "role", user.Role)
	response.Success(c, user)
}

// AdminDeleteUser 管理端删除用户，不允许删除自己
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}

	if err := h.UserAuthService.DeleteUser(id, operatorID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrCannotDeleteSelf):
			respondError(c, response.CodeBadRequest, "error.cannot_delete_self", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.syncUserAuthzRoles(c, id, "")
	requestLog(c).Infow("admin_user_deleted", "user_id", id, "operator_id", operatorID)
	response.Success(c, gin.H{"deleted": true})
}

// syncUserAuthzRoles 保持授权角色与用户角色字段一致，失败只记日志。
func (h *Handler) syncUserAuthzRoles(c *gin.Context, userID uint, role string) {
	if h.AuthzService == nil {
		return
	}
	var roles []string
	if role == constants.UserRoleAdmin {
		roles = []string{authz.RoleAdmin}
	}
	if err := h.AuthzService.SetUserRoles(userID, roles); err != nil {
		requestLog(c).Warnw("admin_user_authz_sync_failed", "user_id", userID, "role", role, "error", err)
	}
}
