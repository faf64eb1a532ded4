package repository

import (
	"errors"

	"github.com/prostore-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetBySession(sessionCartID string) (*models.Cart, error)
	GetByID(id uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	UpsertItem(item *models.CartItem) error
	DeleteItem(cartID, productID uint) error
	UpdatePrices(cartID uint, itemsPrice, shippingPrice, taxPrice, totalPrice models.Money) error
	ClearItems(cartID uint) error
	AdoptUser(cartID, userID uint) error
	Delete(cartID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

func (r *GormCartRepository) getOne(query *gorm.DB) (*models.Cart, error) {
	var cart models.Cart
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByUser 获取用户购物车
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	return r.getOne(r.db.Where("user_id = ?", userID))
}

// GetBySession 获取会话购物车
func (r *GormCartRepository) GetBySession(sessionCartID string) (*models.Cart, error) {
	if sessionCartID == "" {
		return nil, nil
	}
	return r.getOne(r.db.Where("session_cart_id = ?", sessionCartID))
}

// GetByID 根据 ID 获取购物车
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	return r.getOne(r.db.Where("id = ?", id))
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// UpsertItem 添加或更新购物车项
func (r *GormCartRepository) UpsertItem(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	var existing models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(item).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"quantity":   item.Quantity,
		"unit_price": item.UnitPrice,
	}).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(cartID, productID uint) error {
	return r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{}).Error
}

// UpdatePrices 更新购物车金额快照
func (r *GormCartRepository) UpdatePrices(cartID uint, itemsPrice, shippingPrice, taxPrice, totalPrice models.Money) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"items_price":    itemsPrice,
		"shipping_price": shippingPrice,
		"tax_price":      taxPrice,
		"total_price":    totalPrice,
	}).Error
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// AdoptUser 将购物车归属到用户
func (r *GormCartRepository) AdoptUser(cartID, userID uint) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("user_id", userID).Error
}

// Delete 删除购物车及其购物车项。物理删除，
// 避免软删除残留占用 user_id 与 session_cart_id 的唯一索引。
func (r *GormCartRepository) Delete(cartID uint) error {
	if err := r.db.Unscoped().Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&models.Cart{}, cartID).Error
}
