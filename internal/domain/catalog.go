package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a product record pulled from a tenant's store. ExternalProductID
// is the Shopify-assigned id; it is unique per tenant, not globally.
type Product struct {
	ID                uuid.UUID `json:"id"`
	ExternalProductID string    `json:"shopify_product_id"`
	Title             string    `json:"title"`
	Vendor            string    `json:"vendor"`
	ProductType       string    `json:"product_type"`
	CreatedAt         time.Time `json:"created_at"`
	TenantID          uuid.UUID `json:"tenant_id"`
}

// Order is an order record pulled from a tenant's store. CreatedAt is the
// timestamp Shopify reports, not the time of ingestion.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	ExternalOrderID string          `json:"shopify_order_id"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Currency        string          `json:"currency"`
	CreatedAt       time.Time       `json:"created_at"`
	TenantID        uuid.UUID       `json:"tenant_id"`
}

// Customer is a customer record pulled from a tenant's store.
type Customer struct {
	ID                 uuid.UUID       `json:"id"`
	ExternalCustomerID string          `json:"shopify_customer_id"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	Email              string          `json:"email"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
	CreatedAt          time.Time       `json:"created_at"`
	TenantID           uuid.UUID       `json:"tenant_id"`
}
