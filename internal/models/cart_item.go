package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem 购物车项，商品名称与单价为加入时的快照
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                     // 主键
	CartID    uint           `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`     // 购物车ID
	ProductID uint           `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`  // 商品ID
	Name      string         `gorm:"not null" json:"name"`                                     // 商品名称快照
	Slug      string         `gorm:"not null" json:"slug"`                                     // 商品标识快照
	Image     string         `gorm:"type:varchar(500)" json:"image"`                           // 商品主图快照
	UnitPrice Money          `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`  // 单价快照
	Quantity  int            `gorm:"not null" json:"quantity"`                                 // 数量
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
