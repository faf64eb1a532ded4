package public

import (
	handlershared "github.com/prostore-next/internal/http/handlers/shared"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.invalid_params", "error.internal")
}

// optionalUserID 读取可选的登录用户 ID，游客返回 0。
func optionalUserID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

func isAdmin(c *gin.Context) bool {
	value, exists := c.Get("user_role")
	if !exists {
		return false
	}
	role, ok := value.(string)
	return ok && role == "admin"
}

// cartOwner 组装购物车归属：登录用户优先，其次会话购物车 Cookie。
func cartOwner(c *gin.Context) service.CartOwner {
	owner := service.CartOwner{UserID: optionalUserID(c)}
	if value, exists := c.Get("session_cart_id"); exists {
		if id, ok := value.(string); ok {
			owner.SessionCartID = id
		}
	}
	return owner
}
