package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopify-insights-service/internal/application"
	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/infrastructure/auth"
	"shopify-insights-service/internal/infrastructure/repository"
	"shopify-insights-service/internal/infrastructure/repository/entity"
	"shopify-insights-service/internal/infrastructure/shopify"
	"shopify-insights-service/internal/ports"
)

func newTestRouter(t *testing.T, source ports.Source) http.Handler {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, entity.AutoMigrate(db))

	log := zerolog.Nop()
	tenantRepo := repository.NewGormTenantRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	catalogStore := repository.NewGormCatalogStore(db)
	dashboardRepo := repository.NewGormDashboardRepository(db)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	tenantService := application.NewTenantService(tenantRepo, log)
	authService := application.NewAuthService(userRepo, tenantRepo, tokens, log)
	ingestionService := application.NewIngestionService(tenantRepo, catalogStore, source, nil, nil, log)
	dashboardService := application.NewDashboardService(dashboardRepo, nil, log)

	handlers := NewHandlers(tenantService, authService, ingestionService, dashboardService, log)

	r := chi.NewRouter()
	r.Get("/health", handlers.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tenants", handlers.CreateTenant)
		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(authService, log))
			r.Post("/ingest/shopify/products", handlers.IngestProducts)
			r.Post("/ingest/shopify/orders", handlers.IngestOrders)
			r.Post("/ingest/shopify/customers", handlers.IngestCustomers)
			r.Get("/ingest/shopify/test-connection", handlers.TestConnection)
			r.Get("/dashboard", handlers.Dashboard)
		})
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func onboard(t *testing.T, router http.Handler) string {
	rec, tenant := doJSON(t, router, http.MethodPost, "/api/v1/tenants", "", map[string]string{
		"name":                 "Demo Store",
		"shopify_store_url":    "demo.myshopify.com",
		"shopify_access_token": "shpat_test",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":     "merchant@example.com",
		"password":  "s3cret",
		"tenant_id": fmt.Sprint(tenant["id"]),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, login := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "merchant@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bearer", login["token_type"])

	token, ok := login["access_token"].(string)
	require.True(t, ok)
	return token
}

func TestFullIngestionFlow(t *testing.T) {
	router := newTestRouter(t, shopify.NewSeededMockSource(42, zerolog.Nop()))
	token := onboard(t, router)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/ingest/shopify/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(10), body["created"])
	assert.Equal(t, float64(0), body["updated"])
	assert.Equal(t, float64(10), body["total_processed"])
	assert.Equal(t, "mock", body["mode"])

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/ingest/shopify/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/ingest/shopify/customers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, dashboard := doJSON(t, router, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(15), dashboard["total_customers"])
	assert.Equal(t, float64(75), dashboard["total_orders"])

	top, ok := dashboard["top_customers"].([]any)
	require.True(t, ok)
	assert.Len(t, top, 5)
}

func TestIngestRequiresToken(t *testing.T) {
	router := newTestRouter(t, shopify.NewSeededMockSource(42, zerolog.Nop()))

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/ingest/shopify/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "error", body["status"])

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/ingest/shopify/products", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateTenantConflict(t *testing.T) {
	router := newTestRouter(t, shopify.NewSeededMockSource(42, zerolog.Nop()))

	payload := map[string]string{
		"name":                 "Demo Store",
		"shopify_store_url":    "demo.myshopify.com",
		"shopify_access_token": "shpat_test",
	}
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/tenants", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/tenants", "", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Shopify store already registered", body["message"])
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t, shopify.NewSeededMockSource(42, zerolog.Nop()))
	onboard(t, router)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "merchant@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect email or password", body["message"])
}

// failingSource simulates live API failures at the HTTP boundary.
type failingSource struct{ err error }

func (s *failingSource) FetchRecords(ctx context.Context, creds ports.Credentials, kind ports.ResourceKind) ([]ports.Record, error) {
	return nil, s.err
}

func (s *failingSource) FetchShop(ctx context.Context, creds ports.Credentials) (*ports.ShopInfo, error) {
	return nil, s.err
}

func (s *failingSource) Mode() domain.Mode { return domain.ModeLive }

func TestIngestMapsSourceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unauthorized", shopify.Unauthorized("rejected"), http.StatusUnauthorized, "Invalid Shopify access token"},
		{"rate limited", shopify.RateLimited("throttled"), http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."},
		{"timeout", shopify.Timeout("deadline"), http.StatusGatewayTimeout, "Request timeout. Shopify API may be slow."},
		{"connection", shopify.ConnectionFailure("refused"), http.StatusServiceUnavailable, "Connection error. Check internet connection."},
		{"upstream", shopify.UpstreamError(502, "bad gateway"), http.StatusBadGateway, "Shopify API error: 502"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, &failingSource{err: tc.err})
			token := onboard(t, router)

			rec, body := doJSON(t, router, http.MethodPost, "/api/v1/ingest/shopify/products", token, nil)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tc.wantMsg, body["message"])
		})
	}
}

func TestTestConnectionEndpoint(t *testing.T) {
	router := newTestRouter(t, shopify.NewSeededMockSource(42, zerolog.Nop()))
	token := onboard(t, router)

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/ingest/shopify/test-connection", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Xeno Demo Store", body["shop_name"])
	assert.Equal(t, "mock", body["mode"])
}

func TestDashboardRejectsBadDates(t *testing.T) {
	router := newTestRouter(t, shopify.NewSeededMockSource(42, zerolog.Nop()))
	token := onboard(t, router)

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/dashboard?date_from=nonsense", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, shopify.NewSeededMockSource(42, zerolog.Nop()))

	rec, body := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}
