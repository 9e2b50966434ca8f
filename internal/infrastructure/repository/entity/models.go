package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopify-insights-service/internal/domain"
)

// TenantModel is the persistence model for the tenant registry.
type TenantModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(200);not null;index"`
	StoreURL    string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	AccessToken string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (TenantModel) TableName() string { return "tenants" }

func (m *TenantModel) ToDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:          m.ID,
		Name:        m.Name,
		StoreURL:    m.StoreURL,
		AccessToken: m.AccessToken,
		CreatedAt:   m.CreatedAt,
	}
}

func TenantFromDomain(t *domain.Tenant) *TenantModel {
	return &TenantModel{
		ID:          t.ID,
		Name:        t.Name,
		StoreURL:    t.StoreURL,
		AccessToken: t.AccessToken,
		CreatedAt:   t.CreatedAt,
	}
}

// UserModel is the persistence model for dashboard users.
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	HashedPassword string    `gorm:"type:varchar(255);not null"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		TenantID:       m.TenantID,
		CreatedAt:      m.CreatedAt,
	}
}

func UserFromDomain(u *domain.User) *UserModel {
	return &UserModel{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		TenantID:       u.TenantID,
		CreatedAt:      u.CreatedAt,
	}
}

// ProductModel is the persistence model for ingested products. The external
// id is unique per tenant, not globally.
type ProductModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalProductID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_products_tenant_external,priority:2"`
	Title             string    `gorm:"type:varchar(255)"`
	Vendor            string    `gorm:"type:varchar(200)"`
	ProductType       string    `gorm:"type:varchar(200)"`
	CreatedAt         time.Time `gorm:"not null"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_external,priority:1"`
}

func (ProductModel) TableName() string { return "products" }

func (m *ProductModel) ToDomain() *domain.Product {
	return &domain.Product{
		ID:                m.ID,
		ExternalProductID: m.ExternalProductID,
		Title:             m.Title,
		Vendor:            m.Vendor,
		ProductType:       m.ProductType,
		CreatedAt:         m.CreatedAt,
		TenantID:          m.TenantID,
	}
}

func ProductFromDomain(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:                p.ID,
		ExternalProductID: p.ExternalProductID,
		Title:             p.Title,
		Vendor:            p.Vendor,
		ProductType:       p.ProductType,
		CreatedAt:         p.CreatedAt,
		TenantID:          p.TenantID,
	}
}

// OrderModel is the persistence model for ingested orders. CreatedAt stores
// the external creation timestamp, not ingestion time.
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExternalOrderID string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_tenant_external,priority:2"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency        string          `gorm:"type:varchar(8);not null;default:'USD'"`
	CreatedAt       time.Time       `gorm:"not null;index"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_orders_tenant_external,priority:1"`
}

func (OrderModel) TableName() string { return "orders" }

func (m *OrderModel) ToDomain() *domain.Order {
	return &domain.Order{
		ID:              m.ID,
		ExternalOrderID: m.ExternalOrderID,
		TotalPrice:      m.TotalPrice,
		Currency:        m.Currency,
		CreatedAt:       m.CreatedAt,
		TenantID:        m.TenantID,
	}
}

func OrderFromDomain(o *domain.Order) *OrderModel {
	return &OrderModel{
		ID:              o.ID,
		ExternalOrderID: o.ExternalOrderID,
		TotalPrice:      o.TotalPrice,
		Currency:        o.Currency,
		CreatedAt:       o.CreatedAt,
		TenantID:        o.TenantID,
	}
}

// CustomerModel is the persistence model for ingested customers.
type CustomerModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExternalCustomerID string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_customers_tenant_external,priority:2"`
	FirstName          string          `gorm:"type:varchar(100)"`
	LastName           string          `gorm:"type:varchar(100)"`
	Email              string          `gorm:"type:varchar(200);index"`
	TotalSpent         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt          time.Time       `gorm:"not null"`
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_customers_tenant_external,priority:1"`
}

func (CustomerModel) TableName() string { return "customers" }

func (m *CustomerModel) ToDomain() *domain.Customer {
	return &domain.Customer{
		ID:                 m.ID,
		ExternalCustomerID: m.ExternalCustomerID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Email:              m.Email,
		TotalSpent:         m.TotalSpent,
		CreatedAt:          m.CreatedAt,
		TenantID:           m.TenantID,
	}
}

func CustomerFromDomain(c *domain.Customer) *CustomerModel {
	return &CustomerModel{
		ID:                 c.ID,
		ExternalCustomerID: c.ExternalCustomerID,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Email:              c.Email,
		TotalSpent:         c.TotalSpent,
		CreatedAt:          c.CreatedAt,
		TenantID:           c.TenantID,
	}
}

// AutoMigrate creates or updates the schema for every persistence model,
// including the composite (tenant_id, external_id) unique indexes that make
// concurrent ingestion safe.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&TenantModel{},
		&UserModel{},
		&ProductModel{},
		&OrderModel{},
		&CustomerModel{},
	)
}
