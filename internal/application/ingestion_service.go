package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/infrastructure/metrics"
	"shopify-insights-service/internal/ports"
)

var errMissingExternalID = errors.New("record has no usable external id")

// IngestionService is the reconciliation engine. It pulls raw payloads from
// the configured source and idempotently projects them into the tenant's
// persisted catalog: one batch, one transaction, create-or-update keyed by
// (tenant_id, external_id).
type IngestionService struct {
	tenants ports.TenantRepository
	store   ports.CatalogStore
	source  ports.Source
	metrics *metrics.Ingestion
	cache   ports.SnapshotCache
	logger  zerolog.Logger
}

// NewIngestionService creates the reconciliation engine. metrics and cache
// are optional; nil disables them.
func NewIngestionService(
	tenants ports.TenantRepository,
	store ports.CatalogStore,
	source ports.Source,
	ingestionMetrics *metrics.Ingestion,
	cache ports.SnapshotCache,
	logger zerolog.Logger,
) *IngestionService {
	return &IngestionService{
		tenants: tenants,
		store:   store,
		source:  source,
		metrics: ingestionMetrics,
		cache:   cache,
		logger:  logger,
	}
}

// IngestProducts pulls and reconciles the tenant's products.
func (s *IngestionService) IngestProducts(ctx context.Context, tenantID uuid.UUID) (*domain.IngestResult, error) {
	return s.ingest(ctx, tenantID, ports.ResourceProducts)
}

// IngestOrders pulls and reconciles the tenant's orders.
func (s *IngestionService) IngestOrders(ctx context.Context, tenantID uuid.UUID) (*domain.IngestResult, error) {
	return s.ingest(ctx, tenantID, ports.ResourceOrders)
}

// IngestCustomers pulls and reconciles the tenant's customers.
func (s *IngestionService) IngestCustomers(ctx context.Context, tenantID uuid.UUID) (*domain.IngestResult, error) {
	return s.ingest(ctx, tenantID, ports.ResourceCustomers)
}

// ingest runs one reconciliation batch. Per-record failures are skips, not
// control flow: the fold keeps going and only a commit failure aborts.
func (s *IngestionService) ingest(ctx context.Context, tenantID uuid.UUID, kind ports.ResourceKind) (*domain.IngestResult, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	creds := ports.Credentials{StoreURL: tenant.StoreURL, AccessToken: tenant.AccessToken}
	records, err := s.source.FetchRecords(ctx, creds, kind)
	if err != nil {
		return nil, err
	}

	result := &domain.IngestResult{
		TotalProcessed: len(records),
		Mode:           s.source.Mode(),
	}

	err = s.store.InTransaction(ctx, func(cat ports.Catalog) error {
		for _, rec := range records {
			created, recErr := s.reconcile(ctx, cat, tenantID, kind, rec)
			if recErr != nil {
				result.Skipped++
				s.logger.Warn().
					Err(recErr).
					Str("resource", string(kind)).
					Str("tenant_id", tenantID.String()).
					Msg("Skipping record")
				continue
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit ingestion batch: %w", err)
	}

	s.logger.Info().
		Str("resource", string(kind)).
		Str("tenant_id", tenantID.String()).
		Str("mode", string(result.Mode)).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("Ingestion batch committed")

	if s.metrics != nil {
		s.metrics.ObserveRun(string(kind), string(result.Mode), result)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, tenantID)
	}
	return result, nil
}

// reconcile applies one raw record. It reports whether a row was created
// (false means updated) or an error when the record must be skipped.
func (s *IngestionService) reconcile(ctx context.Context, cat ports.Catalog, tenantID uuid.UUID, kind ports.ResourceKind, rec ports.Record) (bool, error) {
	switch kind {
	case ports.ResourceProducts:
		return s.reconcileProduct(ctx, cat, tenantID, rec)
	case ports.ResourceOrders:
		return s.reconcileOrder(ctx, cat, tenantID, rec)
	case ports.ResourceCustomers:
		return s.reconcileCustomer(ctx, cat, tenantID, rec)
	default:
		return false, fmt.Errorf("unsupported resource %q", kind)
	}
}

func (s *IngestionService) reconcileProduct(ctx context.Context, cat ports.Catalog, tenantID uuid.UUID, rec ports.Record) (bool, error) {
	extID, ok := externalID(rec)
	if !ok {
		return false, errMissingExternalID
	}

	existing, err := cat.ProductByExternalID(ctx, tenantID, extID)
	switch {
	case err == nil:
		applyProductFields(existing, rec)
		return false, cat.UpdateProduct(ctx, existing)
	case errors.Is(err, domain.ErrNotFound):
		product := &domain.Product{
			ExternalProductID: extID,
			CreatedAt:         recordTimeOrNow(rec, "created_at"),
			TenantID:          tenantID,
		}
		applyProductFields(product, rec)
		return true, cat.CreateProduct(ctx, product)
	default:
		return false, err
	}
}

func (s *IngestionService) reconcileOrder(ctx context.Context, cat ports.Catalog, tenantID uuid.UUID, rec ports.Record) (bool, error) {
	extID, ok := externalID(rec)
	if !ok {
		return false, errMissingExternalID
	}

	existing, err := cat.OrderByExternalID(ctx, tenantID, extID)
	switch {
	case err == nil:
		if err := applyOrderFields(existing, rec); err != nil {
			return false, err
		}
		return false, cat.UpdateOrder(ctx, existing)
	case errors.Is(err, domain.ErrNotFound):
		createdAt, err := recordTime(rec, "created_at")
		if err != nil {
			return false, err
		}
		order := &domain.Order{
			ExternalOrderID: extID,
			CreatedAt:       createdAt,
			TenantID:        tenantID,
		}
		if err := applyOrderFields(order, rec); err != nil {
			return false, err
		}
		return true, cat.CreateOrder(ctx, order)
	default:
		return false, err
	}
}

func (s *IngestionService) reconcileCustomer(ctx context.Context, cat ports.Catalog, tenantID uuid.UUID, rec ports.Record) (bool, error) {
	extID, ok := externalID(rec)
	if !ok {
		return false, errMissingExternalID
	}

	existing, err := cat.CustomerByExternalID(ctx, tenantID, extID)
	switch {
	case err == nil:
		if err := applyCustomerFields(existing, rec); err != nil {
			return false, err
		}
		return false, cat.UpdateCustomer(ctx, existing)
	case errors.Is(err, domain.ErrNotFound):
		createdAt, err := recordTime(rec, "created_at")
		if err != nil {
			return false, err
		}
		customer := &domain.Customer{
			ExternalCustomerID: extID,
			CreatedAt:          createdAt,
			TenantID:           tenantID,
		}
		if err := applyCustomerFields(customer, rec); err != nil {
			return false, err
		}
		return true, cat.CreateCustomer(ctx, customer)
	default:
		return false, err
	}
}

// TestConnection probes the source with the tenant's credentials. It never
// touches storage.
func (s *IngestionService) TestConnection(ctx context.Context, tenantID uuid.UUID) (*domain.ConnectionInfo, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	creds := ports.Credentials{StoreURL: tenant.StoreURL, AccessToken: tenant.AccessToken}
	shop, err := s.source.FetchShop(ctx, creds)
	if err != nil {
		return nil, err
	}

	return &domain.ConnectionInfo{
		ShopName:   shop.Name,
		ShopDomain: shop.Domain,
		Plan:       shop.Plan,
		Mode:       s.source.Mode(),
	}, nil
}
