package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart 购物车表，游客购物车仅有 SessionCartID，登录后归属到 UserID
type Cart struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                         // 主键
	UserID        *uint          `gorm:"uniqueIndex" json:"user_id,omitempty"`                         // 归属用户（游客为空）
	SessionCartID string         `gorm:"uniqueIndex;not null" json:"session_cart_id"`                  // 会话购物车标识
	ItemsPrice    Money          `gorm:"type:decimal(12,2);not null;default:0" json:"items_price"`     // 商品金额
	ShippingPrice Money          `gorm:"type:decimal(12,2);not null;default:0" json:"shipping_price"`  // 运费
	TaxPrice      Money          `gorm:"type:decimal(12,2);not null;default:0" json:"tax_price"`       // 税费
	TotalPrice    Money          `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`     // 合计金额
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
