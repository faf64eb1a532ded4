package public

import (
	"errors"
	"time"

	"github.com/prostore-next/internal/constants"
	handlershared "github.com/prostore-next/internal/http/handlers/shared"
	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/i18n"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserProfileUpdateRequest 资料更新请求
type UserProfileUpdateRequest struct {
	Name string `json:"name" binding:"required"`
}

// UserPaymentMethodRequest 支付方式偏好请求
type UserPaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

func userView(user *models.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"role":           user.Role,
		"address":        user.Address,
		"payment_method": user.PaymentMethod,
	}
}

func authView(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"user":       userView(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}

// UserRegister 用户注册，成功后直接登录态返回
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "error.email_taken", nil)
		case errors.Is(err, service.ErrWeakPassword):
			locale := i18n.ResolveLocale(c)
			if perr, ok := err.(interface {
				Key() string
				Args() []interface{}
			}); ok {
				respondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, perr.Key(), perr.Args()...), nil)
				return
			}
			respondError(c, response.CodeBadRequest, "error.password_too_short", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.mergeSessionCart(c, user.ID)
	response.Success(c, authView(user, token, expiresAt))
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	if h.CaptchaService != nil && h.CaptchaService.IsSceneEnabled(constants.CaptchaSceneLogin) {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
			default:
				respondError(c, response.CodeInternal, "error.internal", captchaErr)
			}
			return
		}
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	h.mergeSessionCart(c, user.ID)
	response.Success(c, authView(user, token, expiresAt))
}

// UserLogout 退出登录
func (h *Handler) UserLogout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.UserAuthService.Logout(uid)
	response.Success(c, nil)
}

// mergeSessionCart 登录/注册成功后把会话购物车并入用户名下，失败只记日志。
func (h *Handler) mergeSessionCart(c *gin.Context, userID uint) {
	sessionCartID := ""
	if value, exists := c.Get("session_cart_id"); exists {
		if id, ok := value.(string); ok {
			sessionCartID = id
		}
	}
	if sessionCartID == "" || h.CartService == nil {
		return
	}
	if err := h.CartService.MergeOnSignIn(sessionCartID, userID); err != nil {
		requestLog(c).Warnw("cart_merge_on_sign_in_failed",
			"user_id", userID,
			"session_cart_id", sessionCartID,
			"error", err,
		)
	}
}

// GetProfile 个人资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetProfile(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, userView(user))
}

// UpdateProfile 更新昵称
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UserProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	user, err := h.UserAuthService.UpdateProfile(uid, req.Name)
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
	response.Success(c, userView(user))
}

// UpdateShippingAddress 保存收货地址
func (h *Handler) UpdateShippingAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	user, err := h.UserAuthService.UpdateAddress(uid, address)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrAddressRequired):
			respondError(c, response.CodeBadRequest, "error.address_required", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, userView(user))
}

// UpdatePaymentMethod 保存偏好支付方式
func (h *Handler) UpdatePaymentMethod(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UserPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	user, err := h.UserAuthService.UpdatePaymentMethod(uid, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrPaymentMethodInvalid):
			respondError(c, response.CodeBadRequest, "error.payment_method_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, userView(user))
}
