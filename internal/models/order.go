package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PaymentResult 支付结果快照，以 JSON 列整体存取
type PaymentResult struct {
	ID           string `json:"id"`            // 网关侧交易ID
	Status       string `json:"status"`        // 网关侧状态
	EmailAddress string `json:"email_address"` // 付款人邮箱
	PricePaid    string `json:"price_paid"`    // 实付金额
}

// Value 实现 driver.Valuer 接口
func (p PaymentResult) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan 实现 sql.Scanner 接口
func (p *PaymentResult) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentResult{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, p)
}

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	UserID          uint           `gorm:"index;not null" json:"user_id"`                                // 用户ID
	ShippingAddress Address        `gorm:"type:json;not null" json:"shipping_address"`                   // 收货地址快照
	PaymentMethod   string         `gorm:"not null" json:"payment_method"`                               // 支付方式
	PaymentResult   *PaymentResult `gorm:"type:json" json:"payment_result,omitempty"`                    // 支付结果快照
	ItemsPrice      Money          `gorm:"type:decimal(12,2);not null;default:0" json:"items_price"`     // 商品金额
	ShippingPrice   Money          `gorm:"type:decimal(12,2);not null;default:0" json:"shipping_price"`  // 运费
	TaxPrice        Money          `gorm:"type:decimal(12,2);not null;default:0" json:"tax_price"`       // 税费
	TotalPrice      Money          `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`     // 实付金额
	IsPaid          bool           `gorm:"not null;default:false;index" json:"is_paid"`                  // 是否已支付
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	IsDelivered     bool           `gorm:"not null;default:false;index" json:"is_delivered"`             // 是否已发货
	DeliveredAt     *time.Time     `json:"delivered_at"`                                                 // 发货时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
