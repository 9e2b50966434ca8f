package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopify-insights-service/internal/infrastructure/repository/entity"
	"shopify-insights-service/internal/ports"
)

// GormDashboardRepository implements ports.DashboardReader using GORM.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new dashboard reader.
func NewGormDashboardRepository(db *gorm.DB) ports.DashboardReader {
	return &GormDashboardRepository{db: db}
}

// Collect gathers every dashboard aggregate for a tenant in one transaction.
// Counts and revenue always cover the whole tenant; only the time-series
// buckets honor the optional date range.
func (r *GormDashboardRepository) Collect(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (*ports.DashboardData, error) {
	data := &ports.DashboardData{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.CustomerModel{}).
			Where("tenant_id = ?", tenantID).
			Count(&data.TotalCustomers).Error; err != nil {
			return fmt.Errorf("count customers: %w", err)
		}

		if err := tx.Model(&entity.OrderModel{}).
			Where("tenant_id = ?", tenantID).
			Count(&data.TotalOrders).Error; err != nil {
			return fmt.Errorf("count orders: %w", err)
		}

		// Revenue is summed in the service from the individual decimals to
		// keep monetary arithmetic exact across both database engines.
		var prices []decimal.Decimal
		if err := tx.Model(&entity.OrderModel{}).
			Where("tenant_id = ?", tenantID).
			Pluck("total_price", &prices).Error; err != nil {
			return fmt.Errorf("collect order prices: %w", err)
		}
		data.OrderPrices = prices

		// The grouping key is the raw timestamp, not a calendar bucket.
		series := tx.Model(&entity.OrderModel{}).
			Select("created_at, COUNT(*) AS count").
			Where("tenant_id = ?", tenantID)
		if from != nil {
			series = series.Where("created_at >= ?", *from)
		}
		if to != nil {
			series = series.Where("created_at <= ?", *to)
		}
		if err := series.Group("created_at").
			Order("created_at ASC").
			Scan(&data.Buckets).Error; err != nil {
			return fmt.Errorf("collect orders over time: %w", err)
		}

		var top []entity.CustomerModel
		if err := tx.Where("tenant_id = ?", tenantID).
			Order("total_spent DESC").
			Order("id ASC").
			Limit(5).
			Find(&top).Error; err != nil {
			return fmt.Errorf("collect top customers: %w", err)
		}
		for i := range top {
			data.TopCustomers = append(data.TopCustomers, *top[i].ToDomain())
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect dashboard data: %w", err)
	}
	return data, nil
}
