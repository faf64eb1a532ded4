package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prostore-next/internal/authz"
	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"
	"github.com/prostore-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const middlewareTestSecret = "router-middleware-test-secret-0123456789"

func setupMiddlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:router_middleware_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func seedMiddlewareUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &user
}

func signUserToken(t *testing.T, user *models.User, secret string) string {
	t.Helper()
	claims := service.UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestSessionCartMiddlewareIssuesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SessionCartMiddleware(config.CartConfig{SessionCookieName: "session_cart_id"}))
	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_cart_id": c.GetString(sessionCartContextKey)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	issued := ""
	for _, cookie := range cookies {
		if cookie.Name == "session_cart_id" {
			issued = cookie.Value
		}
	}
	if issued == "" {
		t.Fatalf("expected session cart cookie to be issued")
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["session_cart_id"] != issued {
		t.Fatalf("context id want %s got %s", issued, resp["session_cart_id"])
	}

	// 已有 Cookie 时沿用旧标识，不再下发
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req2.AddCookie(&http.Cookie{Name: "session_cart_id", Value: "existing-cart"})
	r.ServeHTTP(w2, req2)

	if len(w2.Result().Cookies()) != 0 {
		t.Fatalf("existing cookie should not be reissued")
	}
	var resp2 map[string]string
	if err := json.Unmarshal(w2.Body.Bytes(), &resp2); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp2["session_cart_id"] != "existing-cart" {
		t.Fatalf("context id want existing-cart got %s", resp2["session_cart_id"])
	}
}

func TestUserJWTAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupMiddlewareTestDB(t)
	userRepo := repository.NewUserRepository(db)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(middlewareTestSecret, userRepo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestUserJWTAuthMiddlewarePopulatesContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupMiddlewareTestDB(t)
	user := seedMiddlewareUser(t, db, "jane@example.com", "user")
	userRepo := repository.NewUserRepository(db)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(middlewareTestSecret, userRepo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint("user_id"),
			"email":   c.GetString("user_email"),
			"role":    c.GetString(userRoleContextKey),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signUserToken(t, user, middlewareTestSecret))
	r.ServeHTTP(w, req)

	var resp struct {
		UserID uint   `json:"user_id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.UserID != user.ID || resp.Email != "jane@example.com" || resp.Role != "user" {
		t.Fatalf("unexpected user context: %+v", resp)
	}
}

func TestUserJWTAuthMiddlewareRejectsTamperedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupMiddlewareTestDB(t)
	user := seedMiddlewareUser(t, db, "steve@example.com", "user")
	userRepo := repository.NewUserRepository(db)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(middlewareTestSecret, userRepo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signUserToken(t, user, "another-secret-another-secret-12345678"))
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestOptionalUserAuthMiddlewareAllowsGuests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupMiddlewareTestDB(t)
	userRepo := repository.NewUserRepository(db)

	r := gin.New()
	r.Use(OptionalUserAuthMiddleware(middlewareTestSecret, userRepo))
	r.GET("/cart", func(c *gin.Context) {
		_, loggedIn := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"logged_in": loggedIn})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"logged_in":false`) {
		t.Fatalf("guest request should pass without user context, got %s", w.Body.String())
	}
}

func TestAdminRBACMiddlewareAdminRoleBypassesPolicy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set(userRoleContextKey, "admin")
	})
	r.Use(AdminRBACMiddleware(nil))
	r.DELETE("/api/v1/admin/products/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/9", nil)
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("admin role should bypass policy check, got %s", w.Body.String())
	}
}

func TestAdminRBACMiddlewareEnforcesSupportPolicy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupMiddlewareTestDB(t)
	user := seedMiddlewareUser(t, db, "support@example.com", "user")

	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	if err := authzService.SetUserRoles(user.ID, []string{authz.RoleSupport}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Set(userRoleContextKey, user.Role)
	})
	r.Use(AdminRBACMiddleware(authzService))
	r.GET("/api/v1/admin/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.DELETE("/api/v1/admin/orders/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("support role should read admin resources, got %s", w.Body.String())
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/orders/3", nil))
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Fatalf("status_code want 403 got %d", resp.StatusCode)
	}
}
