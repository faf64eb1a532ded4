package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/prostore-next/internal/cache"
	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/constants"
	"github.com/prostore-next/internal/logger"
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证与账号服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 签发用户 JWT
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析并校验用户 JWT
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if parsed, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, ErrInvalidParams
}

// Register 注册新用户，注册成功直接登录
func (s *UserAuthService) Register(name, email, password string) (*models.User, string, time.Time, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", time.Time{}, ErrInvalidParams
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, "", time.Time{}, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Name:         name,
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		Role:         constants.UserRoleUser,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	logger.Infow("user_registered", "user_id", user.ID, "email", user.Email)
	return user, token, expiresAt, nil
}

// Login 邮箱密码登录
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"last_login_at": &now,
	}); err != nil {
		logger.Warnw("user_last_login_update_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.refreshAuthState(user)
	logger.Infow("user_logged_in", "user_id", user.ID)
	return user, token, expiresAt, nil
}

// Logout 退出登录，丢弃鉴权状态缓存。
// JWT 本身无状态，缓存失效后中间件会回查用户表。
func (s *UserAuthService) Logout(userID uint) {
	if userID == 0 {
		return
	}
	s.dropAuthState(userID)
	logger.Infow("user_logged_out", "user_id", userID)
}

// GetProfile 获取用户资料
func (s *UserAuthService) GetProfile(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrInvalidParams
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新用户昵称
func (s *UserAuthService) UpdateProfile(userID uint, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if userID == 0 || name == "" {
		return nil, ErrInvalidParams
	}
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"name": name}); err != nil {
		return nil, err
	}
	user.Name = name
	return user, nil
}

// UpdateAddress 保存收货地址，下单的前置步骤之一
func (s *UserAuthService) UpdateAddress(userID uint, address models.Address) (*models.User, error) {
	if userID == 0 {
		return nil, ErrInvalidParams
	}
	if address.IsZero() {
		return nil, ErrAddressRequired
	}
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"address": &address}); err != nil {
		return nil, err
	}
	user.Address = &address
	return user, nil
}

// UpdatePaymentMethod 保存偏好支付方式，必须是站点启用的方式之一
func (s *UserAuthService) UpdatePaymentMethod(userID uint, method string) (*models.User, error) {
	method = strings.TrimSpace(method)
	if userID == 0 {
		return nil, ErrInvalidParams
	}
	if method == "" {
		return nil, ErrPaymentMethodRequired
	}
	supported := ""
	for _, m := range s.cfg.Payment.Methods {
		if strings.EqualFold(strings.TrimSpace(m), method) {
			supported = strings.TrimSpace(m)
			break
		}
	}
	if supported == "" {
		return nil, ErrPaymentMethodInvalid
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"payment_method": supported}); err != nil {
		return nil, err
	}
	user.PaymentMethod = supported
	return user, nil
}

// ListUsers 管理端分页获取用户，支持按昵称或邮箱过滤
func (s *UserAuthService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// UpdateUser 管理端更新用户昵称与角色
func (s *UserAuthService) UpdateUser(userID uint, name, role string) (*models.User, error) {
	name = strings.TrimSpace(name)
	role = strings.TrimSpace(role)
	if userID == 0 || name == "" {
		return nil, ErrInvalidParams
	}
	if role != constants.UserRoleUser && role != constants.UserRoleAdmin {
		return nil, ErrInvalidParams
	}
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"name": name,
		"role": role,
	}); err != nil {
		return nil, err
	}
	user.Name = name
	user.Role = role
	s.refreshAuthState(user)
	logger.Infow("user_updated", "user_id", user.ID, "role", role)
	return user, nil
}

// DeleteUser 管理端删除用户，不允许删除当前登录账号
func (s *UserAuthService) DeleteUser(userID uint, operatorID uint) error {
	if userID == 0 {
		return ErrInvalidParams
	}
	if userID == operatorID {
		return ErrCannotDeleteSelf
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}
	s.dropAuthState(userID)
	logger.Infow("user_deleted", "user_id", userID, "operator_id", operatorID)
	return nil
}

// refreshAuthState 刷新鉴权状态缓存，缓存不可用时静默跳过
func (s *UserAuthService) refreshAuthState(user *models.User) {
	if !cache.Enabled() || user == nil {
		return
	}
	if err := cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("user_auth_state_refresh_failed", "user_id", user.ID, "error", err)
	}
}

func (s *UserAuthService) dropAuthState(userID uint) {
	if !cache.Enabled() {
		return
	}
	if err := cache.DelUserAuthState(context.Background(), userID); err != nil {
		logger.Warnw("user_auth_state_drop_failed", "user_id", userID, "error", err)
	}
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
