package router

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prostore-next/internal/authz"
	"github.com/prostore-next/internal/cache"
	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/http/response"
	"github.com/prostore-next/internal/i18n"
	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/repository"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const userRoleContextKey = "user_role"
const sessionCartContextKey = "session_cart_id"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// SessionCartMiddleware 会话购物车中间件：没有 Cookie 时下发新的会话购物车标识。
func SessionCartMiddleware(cfg config.CartConfig) gin.HandlerFunc {
	cookieName := strings.TrimSpace(cfg.SessionCookieName)
	if cookieName == "" {
		cookieName = "session_cart_id"
	}
	maxAge := cfg.SessionCookieMaxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * 3600
	}
	return func(c *gin.Context) {
		sessionCartID, err := c.Cookie(cookieName)
		sessionCartID = strings.TrimSpace(sessionCartID)
		if err != nil || sessionCartID == "" {
			sessionCartID = uuid.NewString()
			c.SetCookie(cookieName, sessionCartID, maxAge, "/", "", false, true)
		}
		c.Set(sessionCartContextKey, sessionCartID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "error.auth_header_missing"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", "error.auth_header_invalid"
	}
	return parts[1], ""
}

func parseUserClaims(secretKey, tokenString string) (*service.UserJWTClaims, bool) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &service.UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, false
	}
	return claims, true
}

// resolveUserContext 填充用户上下文，角色快照优先走缓存，未命中回查用户表。
func resolveUserContext(c *gin.Context, claims *service.UserJWTClaims, userRepo repository.UserRepository) bool {
	if cached, hit, cacheErr := cache.GetUserAuthState(c.Request.Context(), claims.UserID); cacheErr == nil && hit && cached != nil {
		c.Set("user_id", claims.UserID)
		c.Set("user_email", cached.Email)
		c.Set(userRoleContextKey, cached.Role)
		return true
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil || user == nil {
		return false
	}
	_ = cache.SetUserAuthState(c.Request.Context(), cache.BuildUserAuthState(user))

	c.Set("user_id", user.ID)
	c.Set("user_email", user.Email)
	c.Set(userRoleContextKey, user.Role)
	return true
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
func UserJWTAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		if userRepo == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		tokenString, errKey := bearerToken(c)
		if errKey != "" {
			abortUnauthorized(c, errKey)
			return
		}

		claims, ok := parseUserClaims(secretKey, tokenString)
		if !ok {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		if !resolveUserContext(c, claims, userRepo) {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		c.Next()
	}
}

// OptionalUserAuthMiddleware 可选登录中间件：Token 有效则填充用户上下文，无 Token 按游客放行。
func OptionalUserAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" || userRepo == nil {
			c.Next()
			return
		}
		tokenString, errKey := bearerToken(c)
		if errKey != "" {
			c.Next()
			return
		}
		if claims, ok := parseUserClaims(secretKey, tokenString); ok {
			resolveUserContext(c, claims, userRepo)
		}
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件。
// 角色为 admin 的用户直接放行，其余主体走 Casbin 策略判定。
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, _ := c.Get(userRoleContextKey)
		if role, ok := roleRaw.(string); ok && role == constants.UserRoleAdmin {
			c.Next()
			return
		}

		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortForbidden(c)
			return
		}

		userIDRaw, exists := c.Get("user_id")
		if !exists {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		userID, ok := userIDRaw.(uint)
		if !ok || userID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceUser(userID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortForbidden(c)
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			abortForbidden(c)
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.Unauthorized(c, msg)
	c.Abort()
}

func abortForbidden(c *gin.Context) {
	msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
	response.Forbidden(c, msg)
	c.Abort()
}
