package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/ports"
)

// dateFilterLayouts are the accepted shapes for dashboard date filters, from
// most to least specific.
var dateFilterLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DashboardService is the aggregation engine: it reads a tenant's persisted
// commerce data back and summarizes it into one snapshot.
type DashboardService struct {
	reader ports.DashboardReader
	cache  ports.SnapshotCache
	logger zerolog.Logger
}

// NewDashboardService creates the aggregation engine. cache may be nil.
func NewDashboardService(reader ports.DashboardReader, cache ports.SnapshotCache, logger zerolog.Logger) *DashboardService {
	return &DashboardService{reader: reader, cache: cache, logger: logger}
}

// Snapshot computes the dashboard for a tenant. dateFrom and dateTo, when
// non-empty, restrict the orders-over-time series to the inclusive range;
// counts and total revenue always cover the tenant's full history.
func (s *DashboardService) Snapshot(ctx context.Context, tenantID uuid.UUID, dateFrom, dateTo string) (*domain.DashboardSnapshot, error) {
	from, err := parseDateFilter(dateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: date_from %q", domain.ErrInvalidDateRange, dateFrom)
	}
	to, err := parseDateFilter(dateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: date_to %q", domain.ErrInvalidDateRange, dateTo)
	}

	rangeKey := snapshotRangeKey(from, to)
	if s.cache != nil {
		if snapshot, ok := s.cache.Get(ctx, tenantID, rangeKey); ok {
			return snapshot, nil
		}
	}

	data, err := s.reader.Collect(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, price := range data.OrderPrices {
		revenue = revenue.Add(price)
	}

	series := domain.OrdersOverTime{
		Labels: make([]string, 0, len(data.Buckets)),
		Values: make([]int64, 0, len(data.Buckets)),
	}
	for _, bucket := range data.Buckets {
		series.Labels = append(series.Labels, bucket.CreatedAt.Format("2006-01-02"))
		series.Values = append(series.Values, bucket.Count)
	}

	top := make([]domain.TopCustomer, 0, len(data.TopCustomers))
	for _, customer := range data.TopCustomers {
		top = append(top, domain.TopCustomer{
			FirstName:  customer.FirstName,
			LastName:   customer.LastName,
			TotalSpent: customer.TotalSpent,
		})
	}

	snapshot := &domain.DashboardSnapshot{
		TotalCustomers: data.TotalCustomers,
		TotalOrders:    data.TotalOrders,
		TotalRevenue:   revenue,
		OrdersOverTime: series,
		TopCustomers:   top,
	}

	if s.cache != nil {
		s.cache.Set(ctx, tenantID, rangeKey, snapshot)
	}
	return snapshot, nil
}

// snapshotRangeKey derives the cache key segment from the parsed bounds so
// that equivalent spellings of the same instant share one cache entry and no
// raw query input ends up in a key name.
func snapshotRangeKey(from, to *time.Time) string {
	return formatBound(from) + ".." + formatBound(to)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseDateFilter parses an optional ISO-8601 date filter. An empty string
// means no bound.
func parseDateFilter(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateFilterLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", value)
}
