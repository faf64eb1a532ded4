package service

import (
	"github.com/prostore-next/internal/models"
	"github.com/prostore-next/internal/repository"
)

// DashboardSummary 管理端概览数据
type DashboardSummary struct {
	OrdersCount   int64                        `json:"orders_count"`
	ProductsCount int64                        `json:"products_count"`
	UsersCount    int64                        `json:"users_count"`
	TotalSales    models.Money                 `json:"total_sales"`
	MonthlySales  []repository.MonthlySalesRow `json:"monthly_sales"`
	LatestOrders  []models.Order               `json:"latest_orders"`
}

// DashboardService 管理端概览服务
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService 创建概览服务
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// GetSummary 聚合概览数据：三类计数、总销售额、月度销售额与最近订单
func (s *DashboardService) GetSummary() (*DashboardSummary, error) {
	counts, err := s.dashboardRepo.GetCounts()
	if err != nil {
		return nil, err
	}
	totalSales, err := s.dashboardRepo.GetTotalSales()
	if err != nil {
		return nil, err
	}
	monthlySales, err := s.dashboardRepo.GetMonthlySales()
	if err != nil {
		return nil, err
	}
	latestOrders, err := s.dashboardRepo.GetLatestOrders(6)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		OrdersCount:   counts.OrdersCount,
		ProductsCount: counts.ProductsCount,
		UsersCount:    counts.UsersCount,
		TotalSales:    models.NewMoneyFromDecimal(totalSales),
		MonthlySales:  monthlySales,
		LatestOrders:  latestOrders,
	}, nil
}
