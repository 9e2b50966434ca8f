package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-insights-service/internal/domain"
)

func seedOrder(t *testing.T, store *GormCatalogStore, tenant *domain.Tenant, externalID, price string, createdAt time.Time) {
	require.NoError(t, store.CreateOrder(context.Background(), &domain.Order{
		ExternalOrderID: externalID,
		TotalPrice:      decimal.RequireFromString(price),
		Currency:        "USD",
		CreatedAt:       createdAt,
		TenantID:        tenant.ID,
	}))
}

func TestDashboardCollectCountsAndPrices(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCatalogStore(db)
	reader := NewGormDashboardRepository(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db, "demo.myshopify.com")
	other := createTestTenant(t, db, "other.myshopify.com")

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	seedOrder(t, store, tenant, "1", "25.00", day)
	seedOrder(t, store, tenant, "2", "400.00", day.AddDate(0, 0, 1))
	seedOrder(t, store, tenant, "3", "150.50", day.AddDate(0, 0, 2))

	// Another tenant's order must not bleed into the aggregates.
	seedOrder(t, store, other, "1", "999.99", day)

	require.NoError(t, store.CreateCustomer(ctx, &domain.Customer{
		ExternalCustomerID: "10",
		FirstName:          "Emma",
		TotalSpent:         decimal.RequireFromString("25.00"),
		CreatedAt:          day,
		TenantID:           tenant.ID,
	}))

	data, err := reader.Collect(ctx, tenant.ID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), data.TotalCustomers)
	assert.Equal(t, int64(3), data.TotalOrders)

	total := decimal.Zero
	for _, price := range data.OrderPrices {
		total = total.Add(price)
	}
	assert.Equal(t, "575.5", total.String())

	require.Len(t, data.Buckets, 3)
	assert.Equal(t, int64(1), data.Buckets[0].Count)
	assert.True(t, data.Buckets[0].CreatedAt.Before(data.Buckets[2].CreatedAt))
}

func TestDashboardCollectDateRangeFiltersSeriesOnly(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCatalogStore(db)
	reader := NewGormDashboardRepository(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db, "demo.myshopify.com")

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	seedOrder(t, store, tenant, "1", "25.00", day)
	seedOrder(t, store, tenant, "2", "400.00", day.AddDate(0, 0, 5))
	seedOrder(t, store, tenant, "3", "150.50", day.AddDate(0, 0, 10))

	from := day.AddDate(0, 0, 3)
	to := day.AddDate(0, 0, 7)
	data, err := reader.Collect(ctx, tenant.ID, &from, &to)
	require.NoError(t, err)

	// Only the middle order lands in the series window.
	require.Len(t, data.Buckets, 1)
	assert.True(t, data.Buckets[0].CreatedAt.Equal(day.AddDate(0, 0, 5)))

	// Counts and prices stay unfiltered.
	assert.Equal(t, int64(3), data.TotalOrders)
	assert.Len(t, data.OrderPrices, 3)
}

func TestDashboardCollectTopCustomers(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCatalogStore(db)
	reader := NewGormDashboardRepository(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db, "demo.myshopify.com")

	spends := []string{"816.84", "454.45", "1205.32", "892.17", "1456.73", "2105.89", "1823.45"}
	for i, spent := range spends {
		require.NoError(t, store.CreateCustomer(ctx, &domain.Customer{
			ExternalCustomerID: fmt.Sprint(5000 + i),
			FirstName:          fmt.Sprintf("Customer%d", i),
			TotalSpent:         decimal.RequireFromString(spent),
			CreatedAt:          time.Now().UTC(),
			TenantID:           tenant.ID,
		}))
	}

	data, err := reader.Collect(ctx, tenant.ID, nil, nil)
	require.NoError(t, err)

	require.Len(t, data.TopCustomers, 5)
	assert.Equal(t, "2105.89", data.TopCustomers[0].TotalSpent.String())
	assert.Equal(t, "1823.45", data.TopCustomers[1].TotalSpent.String())
	assert.Equal(t, "1456.73", data.TopCustomers[2].TotalSpent.String())
	assert.Equal(t, "1205.32", data.TopCustomers[3].TotalSpent.String())
	assert.Equal(t, "892.17", data.TopCustomers[4].TotalSpent.String())
	for _, customer := range data.TopCustomers {
		assert.NotEqual(t, "454.45", customer.TotalSpent.String())
	}
}
