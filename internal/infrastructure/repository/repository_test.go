package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/infrastructure/repository/entity"
	"shopify-insights-service/internal/ports"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = entity.AutoMigrate(db)
	require.NoError(t, err)

	return db
}

func createTestTenant(t *testing.T, db *gorm.DB, storeURL string) *domain.Tenant {
	repo := NewGormTenantRepository(db)
	tenant := &domain.Tenant{
		Name:        "Test Store",
		StoreURL:    storeURL,
		AccessToken: "shpat_test",
	}
	require.NoError(t, repo.Create(context.Background(), tenant))
	return tenant
}

func TestTenantRepositoryCreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db, "demo.myshopify.com")
	assert.NotEqual(t, uuid.Nil, tenant.ID)
	assert.False(t, tenant.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.StoreURL, byID.StoreURL)

	byURL, err := repo.FindByStoreURL(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, byURL.ID)
}

func TestTenantRepositoryDuplicateStoreURL(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	createTestTenant(t, db, "demo.myshopify.com")

	err := repo.Create(ctx, &domain.Tenant{
		Name:        "Other Store",
		StoreURL:    "demo.myshopify.com",
		AccessToken: "shpat_other",
	})
	assert.ErrorIs(t, err, domain.ErrStoreURLTaken)
}

func TestTenantRepositoryNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.FindByStoreURL(ctx, "missing.myshopify.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db, "demo.myshopify.com")

	user := &domain.User{
		Email:          "merchant@example.com",
		HashedPassword: "hash",
		TenantID:       tenant.ID,
	}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, &domain.User{
		Email:          "merchant@example.com",
		HashedPassword: "hash2",
		TenantID:       tenant.ID,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	found, err := repo.FindByEmail(ctx, "merchant@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestCatalogStoreTenantScoping(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCatalogStore(db)
	ctx := context.Background()

	tenantA := createTestTenant(t, db, "a.myshopify.com")
	tenantB := createTestTenant(t, db, "b.myshopify.com")

	require.NoError(t, store.CreateProduct(ctx, &domain.Product{
		ExternalProductID: "1001",
		Title:             "Tenant A Product",
		CreatedAt:         time.Now().UTC(),
		TenantID:          tenantA.ID,
	}))

	// Same external id is a different row for another tenant.
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{
		ExternalProductID: "1001",
		Title:             "Tenant B Product",
		CreatedAt:         time.Now().UTC(),
		TenantID:          tenantB.ID,
	}))

	productA, err := store.ProductByExternalID(ctx, tenantA.ID, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Tenant A Product", productA.Title)

	productB, err := store.ProductByExternalID(ctx, tenantB.ID, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Tenant B Product", productB.Title)

	_, err = store.ProductByExternalID(ctx, tenantA.ID, "9999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStoreUpdateLeavesCreatedAtAlone(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCatalogStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db, "demo.myshopify.com")

	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ExternalOrderID: "2001",
		TotalPrice:      decimal.RequireFromString("100.00"),
		Currency:        "USD",
		CreatedAt:       createdAt,
		TenantID:        tenant.ID,
	}
	require.NoError(t, store.CreateOrder(ctx, order))

	order.TotalPrice = decimal.RequireFromString("250.50")
	order.Currency = "EUR"
	order.CreatedAt = time.Now().UTC()
	require.NoError(t, store.UpdateOrder(ctx, order))

	reloaded, err := store.OrderByExternalID(ctx, tenant.ID, "2001")
	require.NoError(t, err)
	assert.True(t, reloaded.TotalPrice.Equal(decimal.RequireFromString("250.50")))
	assert.Equal(t, "EUR", reloaded.Currency)
	assert.True(t, reloaded.CreatedAt.Equal(createdAt), "created_at must stay immutable")
}

func TestCatalogStoreCreateConflictDegradesIntoUpdate(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCatalogStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db, "demo.myshopify.com")

	createdAt := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{
		ExternalProductID: "1001",
		Title:             "First Write",
		Vendor:            "Acme",
		CreatedAt:         createdAt,
		TenantID:          tenant.ID,
	}))

	// A second create for the same (tenant, external id), as happens when
	// two ingest runs race past the lookup, must not fail the transaction.
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{
		ExternalProductID: "1001",
		Title:             "Second Write",
		Vendor:            "Globex",
		CreatedAt:         time.Now().UTC(),
		TenantID:          tenant.ID,
	}))

	var count int64
	require.NoError(t, db.Model(&entity.ProductModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	reloaded, err := store.ProductByExternalID(ctx, tenant.ID, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Second Write", reloaded.Title)
	assert.Equal(t, "Globex", reloaded.Vendor)
	assert.True(t, reloaded.CreatedAt.Equal(createdAt), "created_at keeps the first write")

	require.NoError(t, store.CreateOrder(ctx, &domain.Order{
		ExternalOrderID: "2001",
		TotalPrice:      decimal.RequireFromString("10.00"),
		Currency:        "USD",
		CreatedAt:       createdAt,
		TenantID:        tenant.ID,
	}))
	require.NoError(t, store.CreateOrder(ctx, &domain.Order{
		ExternalOrderID: "2001",
		TotalPrice:      decimal.RequireFromString("42.50"),
		Currency:        "EUR",
		CreatedAt:       time.Now().UTC(),
		TenantID:        tenant.ID,
	}))
	order, err := store.OrderByExternalID(ctx, tenant.ID, "2001")
	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, "EUR", order.Currency)

	require.NoError(t, store.CreateCustomer(ctx, &domain.Customer{
		ExternalCustomerID: "3001",
		FirstName:          "Emma",
		TotalSpent:         decimal.RequireFromString("100.00"),
		CreatedAt:          createdAt,
		TenantID:           tenant.ID,
	}))
	require.NoError(t, store.CreateCustomer(ctx, &domain.Customer{
		ExternalCustomerID: "3001",
		FirstName:          "Emily",
		TotalSpent:         decimal.RequireFromString("180.00"),
		CreatedAt:          time.Now().UTC(),
		TenantID:           tenant.ID,
	}))
	customer, err := store.CustomerByExternalID(ctx, tenant.ID, "3001")
	require.NoError(t, err)
	assert.Equal(t, "Emily", customer.FirstName)
	assert.True(t, customer.TotalSpent.Equal(decimal.RequireFromString("180.00")))
}

func TestCatalogStoreTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCatalogStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db, "demo.myshopify.com")

	err := store.InTransaction(ctx, func(cat ports.Catalog) error {
		require.NoError(t, cat.CreateCustomer(ctx, &domain.Customer{
			ExternalCustomerID: "3001",
			FirstName:          "Emma",
			CreatedAt:          time.Now().UTC(),
			TenantID:           tenant.ID,
		}))
		return assert.AnError
	})
	require.Error(t, err)

	_, err = store.CustomerByExternalID(ctx, tenant.ID, "3001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
