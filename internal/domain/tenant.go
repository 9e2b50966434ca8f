package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a registered Shopify store. All commerce data in the
// system is partitioned by tenant ID.
type Tenant struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	StoreURL    string    `json:"shopify_store_url"`
	AccessToken string    `json:"shopify_access_token,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// User is a dashboard login belonging to exactly one tenant. The tenant for
// every ingestion and dashboard call is derived from the authenticated user.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	TenantID       uuid.UUID `json:"tenant_id"`
	CreatedAt      time.Time `json:"created_at"`
}
