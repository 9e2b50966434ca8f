package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/ports"
)

// TenantService manages the tenant registry: one row per connected Shopify
// store.
type TenantService struct {
	tenants ports.TenantRepository
	logger  zerolog.Logger
}

func NewTenantService(tenants ports.TenantRepository, logger zerolog.Logger) *TenantService {
	return &TenantService{tenants: tenants, logger: logger}
}

// Create registers a store. The store URL is the natural key; registering an
// already-known URL returns domain.ErrStoreURLTaken.
func (s *TenantService) Create(ctx context.Context, name, storeURL, accessToken string) (*domain.Tenant, error) {
	if _, err := s.tenants.FindByStoreURL(ctx, storeURL); err == nil {
		return nil, domain.ErrStoreURLTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check store url: %w", err)
	}

	tenant := &domain.Tenant{
		Name:        name,
		StoreURL:    storeURL,
		AccessToken: accessToken,
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("tenant_id", tenant.ID.String()).
		Str("store_url", tenant.StoreURL).
		Msg("Tenant registered")
	return tenant, nil
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return s.tenants.FindByID(ctx, id)
}

func (s *TenantService) GetByStoreURL(ctx context.Context, storeURL string) (*domain.Tenant, error) {
	return s.tenants.FindByStoreURL(ctx, storeURL)
}
