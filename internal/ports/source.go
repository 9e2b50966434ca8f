package ports

import (
	"context"

	"shopify-insights-service/internal/domain"
)

// ResourceKind names a Shopify list resource handled by the ingestion engine.
type ResourceKind string

const (
	ResourceProducts  ResourceKind = "products"
	ResourceOrders    ResourceKind = "orders"
	ResourceCustomers ResourceKind = "customers"
)

// Record is one raw decoded JSON object from a Shopify payload. Both source
// implementations emit the same shape so the reconciler cannot tell them
// apart.
type Record map[string]any

// Credentials identify the store a fetch is issued against.
type Credentials struct {
	StoreURL    string
	AccessToken string
}

// ShopInfo is the decoded shop resource used by the connectivity probe.
type ShopInfo struct {
	Name   string
	Domain string
	Plan   string
}

// Source fetches raw payloads from the Shopify Admin API or from the mock
// generator. Failures are reported as *shopify.SourceError values carrying
// the failure taxonomy; Source implementations never panic.
type Source interface {
	// FetchRecords returns the first page of the named list resource.
	FetchRecords(ctx context.Context, creds Credentials, kind ResourceKind) ([]Record, error)

	// FetchShop performs the lightweight connectivity probe.
	FetchShop(ctx context.Context, creds Credentials) (*ShopInfo, error)

	// Mode reports which implementation this is.
	Mode() domain.Mode
}
