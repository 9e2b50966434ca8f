package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/infrastructure/repository/entity"
	"shopify-insights-service/internal/ports"
)

// GormCatalogStore implements ports.CatalogStore using GORM. Every lookup and
// write is scoped by tenant_id; the composite unique indexes back up the
// create-vs-update decision under concurrent ingestion.
type GormCatalogStore struct {
	db *gorm.DB
}

// NewGormCatalogStore creates a new catalog store.
func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

// InTransaction runs fn against a catalog bound to a single transaction. The
// whole reconciliation batch commits or rolls back as one unit.
func (s *GormCatalogStore) InTransaction(ctx context.Context, fn func(ports.Catalog) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormCatalogStore{db: tx})
	})
}

// ProductByExternalID looks up a product by (tenant_id, external_product_id).
func (s *GormCatalogStore) ProductByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*domain.Product, error) {
	var model entity.ProductModel
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND external_product_id = ?", tenantID, externalID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return model.ToDomain(), nil
}

// CreateProduct inserts a new product row. A concurrent batch racing past the
// lookup hits the composite unique index; the conflict degrades into an
// update of the mutable fields instead of poisoning the transaction.
func (s *GormCatalogStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "vendor", "product_type"}),
		}).
		Create(entity.ProductFromDomain(product)).Error
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct overwrites only the mutable projected fields. Identifiers and
// created_at are never touched after creation.
func (s *GormCatalogStore) UpdateProduct(ctx context.Context, product *domain.Product) error {
	err := s.db.WithContext(ctx).
		Model(&entity.ProductModel{}).
		Where("id = ? AND tenant_id = ?", product.ID, product.TenantID).
		Select("title", "vendor", "product_type").
		Updates(entity.ProductFromDomain(product)).Error
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// OrderByExternalID looks up an order by (tenant_id, external_order_id).
func (s *GormCatalogStore) OrderByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*domain.Order, error) {
	var model entity.OrderModel
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND external_order_id = ?", tenantID, externalID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return model.ToDomain(), nil
}

// CreateOrder inserts a new order row, degrading a composite-index conflict
// into an update of the mutable fields.
func (s *GormCatalogStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_price", "currency"}),
		}).
		Create(entity.OrderFromDomain(order)).Error
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateOrder overwrites only total_price and currency.
func (s *GormCatalogStore) UpdateOrder(ctx context.Context, order *domain.Order) error {
	err := s.db.WithContext(ctx).
		Model(&entity.OrderModel{}).
		Where("id = ? AND tenant_id = ?", order.ID, order.TenantID).
		Select("total_price", "currency").
		Updates(entity.OrderFromDomain(order)).Error
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// CustomerByExternalID looks up a customer by (tenant_id, external_customer_id).
func (s *GormCatalogStore) CustomerByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*domain.Customer, error) {
	var model entity.CustomerModel
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND external_customer_id = ?", tenantID, externalID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return model.ToDomain(), nil
}

// CreateCustomer inserts a new customer row, degrading a composite-index
// conflict into an update of the mutable fields.
func (s *GormCatalogStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "email", "total_spent"}),
		}).
		Create(entity.CustomerFromDomain(customer)).Error
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// UpdateCustomer overwrites only name, email and total_spent.
func (s *GormCatalogStore) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	err := s.db.WithContext(ctx).
		Model(&entity.CustomerModel{}).
		Where("id = ? AND tenant_id = ?", customer.ID, customer.TenantID).
		Select("first_name", "last_name", "email", "total_spent").
		Updates(entity.CustomerFromDomain(customer)).Error
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}
