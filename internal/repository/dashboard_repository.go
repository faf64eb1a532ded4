package repository

import (
	"github.com/prostore-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository 管理端概览聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetCounts() (DashboardCountsRow, error)
	GetTotalSales() (decimal.Decimal, error)
	GetMonthlySales() ([]MonthlySalesRow, error)
	GetLatestOrders(limit int) ([]models.Order, error)
}

// DashboardCountsRow 概览计数统计
type DashboardCountsRow struct {
	OrdersCount   int64
	ProductsCount int64
	UsersCount    int64
}

// MonthlySalesRow 月度销售额统计
type MonthlySalesRow struct {
	Month      string          `json:"month"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// GormDashboardRepository GORM 聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建概览仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetCounts 获取订单、商品、用户总数
func (r *GormDashboardRepository) GetCounts() (DashboardCountsRow, error) {
	result := DashboardCountsRow{}
	if err := r.db.Model(&models.Order{}).Count(&result.OrdersCount).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).Count(&result.ProductsCount).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.User{}).Count(&result.UsersCount).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetTotalSales 获取全部订单的销售总额
func (r *GormDashboardRepository) GetTotalSales() (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GetMonthlySales 按月聚合销售额
func (r *GormDashboardRepository) GetMonthlySales() ([]MonthlySalesRow, error) {
	rows := make([]MonthlySalesRow, 0)
	expr := monthExpr(r.db, "created_at")
	if err := r.db.Model(&models.Order{}).
		Select(expr + " as month, COALESCE(SUM(total_price), 0) as total_sales").
		Group(expr).
		Order("month desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLatestOrders 获取最近的订单
func (r *GormDashboardRepository) GetLatestOrders(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 6
	}
	var orders []models.Order
	if err := r.db.Preload("User").
		Order("created_at desc").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
