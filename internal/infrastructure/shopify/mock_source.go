package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/ports"
)

// MockSource produces payloads structurally identical to the live Admin API
// responses, with randomized content, for demos and tests that must not
// depend on the network. The record shape matches what LiveSource decodes:
// ids as json.Number, money as strings, timestamps as RFC3339.
type MockSource struct {
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewMockSource creates a mock source with time-based randomness.
func NewMockSource(logger zerolog.Logger) *MockSource {
	return NewSeededMockSource(time.Now().UnixNano(), logger)
}

// NewSeededMockSource creates a mock source with reproducible content.
func NewSeededMockSource(seed int64, logger zerolog.Logger) *MockSource {
	return &MockSource{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Mode reports that this source generates synthetic data.
func (s *MockSource) Mode() domain.Mode {
	return domain.ModeMock
}

// FetchRecords generates the mock payload for the named resource.
func (s *MockSource) FetchRecords(ctx context.Context, creds ports.Credentials, kind ports.ResourceKind) ([]ports.Record, error) {
	var records []ports.Record
	switch kind {
	case ports.ResourceProducts:
		records = s.products()
	case ports.ResourceOrders:
		records = s.orders()
	case ports.ResourceCustomers:
		records = s.customers()
	default:
		return nil, Unknown(fmt.Sprintf("unsupported resource %q", kind))
	}

	s.logger.Debug().
		Str("resource", string(kind)).
		Int("records", len(records)).
		Msg("Generated mock payload")

	return records, nil
}

// FetchShop returns the demo shop used by the connectivity probe.
func (s *MockSource) FetchShop(ctx context.Context, creds ports.Credentials) (*ports.ShopInfo, error) {
	return &ports.ShopInfo{
		Name:   "Xeno Demo Store",
		Domain: "xeno-demo-store.myshopify.com",
		Plan:   "Basic",
	}, nil
}

type productTemplate struct {
	title       string
	vendor      string
	productType string
}

var productTemplates = []productTemplate{
	{"Premium Wireless Earbuds", "TechSound", "Electronics"},
	{"Organic Cotton T-Shirt", "EcoWear", "Apparel"},
	{"Smart Fitness Tracker", "FitTech", "Electronics"},
	{"Ceramic Coffee Mug", "HomeStyle", "Home & Kitchen"},
	{"Yoga Mat Pro", "ZenFit", "Sports"},
	{"Bluetooth Speaker", "SoundWave", "Electronics"},
	{"Leather Wallet", "CraftLeather", "Accessories"},
	{"Stainless Steel Water Bottle", "HydroLife", "Sports"},
	{"Desk Organizer", "OfficeMax", "Office"},
	{"Phone Case - Clear", "ProtectTech", "Electronics"},
}

func (s *MockSource) products() []ports.Record {
	base := time.Now().UTC().AddDate(0, 0, -30)

	records := make([]ports.Record, 0, len(productTemplates))
	for i, tpl := range productTemplates {
		created := base.AddDate(0, 0, s.rng.Intn(26))
		records = append(records, ports.Record{
			"id":           externalNumber(1_000_000_000_000 + int64(i) + 1),
			"title":        tpl.title,
			"vendor":       tpl.vendor,
			"product_type": tpl.productType,
			"handle":       strings.ToLower(strings.ReplaceAll(tpl.title, " ", "-")),
			"status":       "active",
			"tags":         tpl.productType + ", Premium, Popular",
			"created_at":   created.Format(time.RFC3339),
			"updated_at":   created.AddDate(0, 0, 1+s.rng.Intn(5)).Format(time.RFC3339),
		})
	}
	return records
}

type customerTemplate struct {
	firstName string
	lastName  string
	email     string
	spent     string
}

var customerTemplates = []customerTemplate{
	{"Emma", "Johnson", "emma.johnson@email.com", "816.84"},
	{"Michael", "Brown", "michael.brown@email.com", "454.45"},
	{"Sarah", "Davis", "sarah.davis@email.com", "1205.32"},
	{"James", "Wilson", "james.wilson@email.com", "892.17"},
	{"Lisa", "Anderson", "lisa.anderson@email.com", "673.98"},
	{"David", "Taylor", "david.taylor@email.com", "1456.73"},
	{"Jessica", "Martinez", "jessica.martinez@email.com", "589.45"},
	{"Robert", "Garcia", "robert.garcia@email.com", "2105.89"},
	{"Ashley", "Rodriguez", "ashley.rodriguez@email.com", "734.62"},
	{"Christopher", "Lee", "christopher.lee@email.com", "1823.45"},
	{"Amanda", "White", "amanda.white@email.com", "967.21"},
	{"Daniel", "Harris", "daniel.harris@email.com", "1134.78"},
	{"Jennifer", "Clark", "jennifer.clark@email.com", "845.33"},
	{"Matthew", "Lewis", "matthew.lewis@email.com", "692.84"},
	{"Nicole", "Walker", "nicole.walker@email.com", "1567.92"},
}

func (s *MockSource) customers() []ports.Record {
	base := time.Now().UTC().AddDate(0, 0, -60)

	records := make([]ports.Record, 0, len(customerTemplates))
	for i, tpl := range customerTemplates {
		created := base.AddDate(0, 0, s.rng.Intn(46))
		records = append(records, ports.Record{
			"id":           externalNumber(5_000_000_000_000 + int64(i) + 1),
			"email":        tpl.email,
			"first_name":   tpl.firstName,
			"last_name":    tpl.lastName,
			"orders_count": externalNumber(int64(1 + s.rng.Intn(8))),
			"state":        "enabled",
			"total_spent":  tpl.spent,
			"currency":     "USD",
			"created_at":   created.Format(time.RFC3339),
			"updated_at":   created.AddDate(0, 0, 5+s.rng.Intn(26)).Format(time.RFC3339),
		})
	}
	return records
}

const mockOrderCount = 75

func (s *MockSource) orders() []ports.Record {
	base := time.Now().UTC().AddDate(0, 0, -45)

	records := make([]ports.Record, 0, mockOrderCount)
	for i := 1; i <= mockOrderCount; i++ {
		created := base.AddDate(0, 0, s.rng.Intn(41))
		total := 25.0 + s.rng.Float64()*375.0
		records = append(records, ports.Record{
			"id":               externalNumber(6_000_000_000_000 + int64(i)),
			"name":             fmt.Sprintf("#%d", 1000+i),
			"order_number":     externalNumber(int64(1000 + i)),
			"email":            fmt.Sprintf("customer%d@email.com", i),
			"financial_status": pick(s.rng, "paid", "pending", "authorized"),
			"currency":         "USD",
			"total_price":      fmt.Sprintf("%.2f", total),
			"created_at":       created.Format(time.RFC3339),
			"processed_at":     created.Format(time.RFC3339),
		})
	}
	return records
}

func externalNumber(v int64) json.Number {
	return json.Number(fmt.Sprint(v))
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
