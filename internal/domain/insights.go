package domain

import "github.com/shopspring/decimal"

// Mode reports which source implementation produced a payload.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

// IngestResult summarizes one reconciliation run for a single resource kind.
type IngestResult struct {
	Created        int  `json:"created"`
	Updated        int  `json:"updated"`
	Skipped        int  `json:"-"`
	TotalProcessed int  `json:"total_processed"`
	Mode           Mode `json:"mode"`
}

// ConnectionInfo is the result of the connectivity probe. It is built from
// the shop resource and never touches storage.
type ConnectionInfo struct {
	ShopName   string `json:"shop_name"`
	ShopDomain string `json:"shop_domain"`
	Plan       string `json:"plan"`
	Mode       Mode   `json:"mode"`
}

// OrdersOverTime is the dashboard time series: order counts grouped by the
// exact creation timestamp, labels rendered as dates.
type OrdersOverTime struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

// TopCustomer is the dashboard projection of a high-spend customer.
type TopCustomer struct {
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// DashboardSnapshot aggregates a tenant's persisted commerce data.
//
// TotalRevenue is deliberately not restricted by the date range even when
// OrdersOverTime is; callers rely on the lifetime figure.
type DashboardSnapshot struct {
	TotalCustomers int64           `json:"total_customers"`
	TotalOrders    int64           `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	OrdersOverTime OrdersOverTime  `json:"orders_over_time"`
	TopCustomers   []TopCustomer   `json:"top_customers"`
}
