package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Address 收货地址快照，以 JSON 列整体存取
type Address struct {
	FullName      string  `json:"full_name"`
	StreetAddress string  `json:"street_address"`
	City          string  `json:"city"`
	PostalCode    string  `json:"postal_code"`
	Country       string  `json:"country"`
	Lat           float64 `json:"lat,omitempty"`
	Lng           float64 `json:"lng,omitempty"`
}

// Value 实现 driver.Valuer 接口
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan 实现 sql.Scanner 接口
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// IsZero 地址是否未填写
func (a Address) IsZero() bool {
	return a.FullName == "" && a.StreetAddress == "" && a.City == "" &&
		a.PostalCode == "" && a.Country == ""
}

// User 用户表
type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`                       // 主键
	Name          string         `gorm:"not null" json:"name"`                       // 昵称
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`          // 邮箱
	PasswordHash  string         `gorm:"not null" json:"-"`                          // 密码哈希（不返回给前端）
	Role          string         `gorm:"not null;default:'user';index" json:"role"`  // 角色（user/admin）
	Address       *Address       `gorm:"type:json" json:"address,omitempty"`         // 收货地址
	PaymentMethod string         `gorm:"type:varchar(40)" json:"payment_method"`     // 偏好支付方式
	LastLoginAt   *time.Time     `json:"last_login_at"`                              // 最后登录时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                    // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
