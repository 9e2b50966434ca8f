package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/infrastructure/repository/entity"
	"shopify-insights-service/internal/ports"
)

// GormTenantRepository implements ports.TenantRepository using GORM.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new tenant repository.
func NewGormTenantRepository(db *gorm.DB) ports.TenantRepository {
	return &GormTenantRepository{db: db}
}

// Create persists a new tenant. The store URL carries a unique index, so a
// duplicate registration racing past the service-level check still fails.
func (r *GormTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(entity.TenantFromDomain(tenant)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrStoreURLTaken
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// FindByID retrieves a tenant by its id.
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	var model entity.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByStoreURL retrieves a tenant by its registered store URL.
func (r *GormTenantRepository) FindByStoreURL(ctx context.Context, storeURL string) (*domain.Tenant, error) {
	var model entity.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "store_url = ?", storeURL).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant by store url: %w", err)
	}
	return model.ToDomain(), nil
}

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new user repository.
func NewGormUserRepository(db *gorm.DB) ports.UserRepository {
	return &GormUserRepository{db: db}
}

// Create persists a new user.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(entity.UserFromDomain(user)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model entity.UserModel
	if err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return model.ToDomain(), nil
}
