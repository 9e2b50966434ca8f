package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopify-insights-service/internal/domain"
)

// TenantRepository persists the tenant registry.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	FindByStoreURL(ctx context.Context, storeURL string) (*domain.Tenant, error)
}

// UserRepository persists dashboard users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Catalog exposes the per-tenant lookup and upsert operations the
// reconciliation engine needs. Lookups return domain.ErrNotFound when no
// record matches (tenant_id, external_id).
type Catalog interface {
	ProductByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error

	OrderByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	UpdateOrder(ctx context.Context, order *domain.Order) error

	CustomerByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
}

// CatalogStore is a Catalog that can run a whole reconciliation batch inside
// one transaction. An error returned from fn rolls the batch back; a commit
// failure surfaces as the returned error.
type CatalogStore interface {
	Catalog
	InTransaction(ctx context.Context, fn func(Catalog) error) error
}

// OrderBucket is one point of the orders-over-time series: the count of
// orders sharing one exact creation timestamp.
type OrderBucket struct {
	CreatedAt time.Time
	Count     int64
}

// DashboardData is the raw material for one dashboard snapshot, collected in
// a single read transaction.
type DashboardData struct {
	TotalCustomers int64
	TotalOrders    int64
	OrderPrices    []decimal.Decimal
	Buckets        []OrderBucket
	TopCustomers   []domain.Customer
}

// DashboardReader collects a tenant's aggregates. The time range, when
// non-nil, restricts Buckets only; counts and prices always cover the whole
// tenant.
type DashboardReader interface {
	Collect(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (*DashboardData, error)
}

// SnapshotCache caches rendered dashboard snapshots keyed by tenant and date
// range. A nil cache disables caching entirely.
type SnapshotCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, rangeKey string) (*domain.DashboardSnapshot, bool)
	Set(ctx context.Context, tenantID uuid.UUID, rangeKey string, snapshot *domain.DashboardSnapshot)
	Invalidate(ctx context.Context, tenantID uuid.UUID)
}
