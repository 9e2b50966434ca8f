package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopify-insights-service/internal/application"
	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/infrastructure/shopify"
)

// Handlers maps the application services onto the REST surface. Every error
// leaves as {"status":"error","message":...}; the adapter's failure taxonomy
// keeps its caller-facing messages.
type Handlers struct {
	tenants   *application.TenantService
	auth      *application.AuthService
	ingestion *application.IngestionService
	dashboard *application.DashboardService
	logger    zerolog.Logger
}

func NewHandlers(
	tenants *application.TenantService,
	auth *application.AuthService,
	ingestion *application.IngestionService,
	dashboard *application.DashboardService,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		tenants:   tenants,
		auth:      auth,
		ingestion: ingestion,
		dashboard: dashboard,
		logger:    logger,
	}
}

type createTenantRequest struct {
	Name        string `json:"name"`
	StoreURL    string `json:"shopify_store_url"`
	AccessToken string `json:"shopify_access_token"`
}

func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.StoreURL == "" || req.AccessToken == "" {
		writeError(w, http.StatusBadRequest, "name, shopify_store_url and shopify_access_token are required")
		return
	}

	tenant, err := h.tenants.Create(r.Context(), req.Name, req.StoreURL, req.AccessToken)
	if err != nil {
		if errors.Is(err, domain.ErrStoreURLTaken) {
			writeError(w, http.StatusConflict, "Shopify store already registered")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to create tenant")
		writeError(w, http.StatusInternalServerError, "Failed to create tenant")
		return
	}
	writeJSON(w, http.StatusCreated, tenant)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "tenant_id must be a valid UUID")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password, tenantID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Tenant not found")
		case errors.Is(err, domain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "Email already registered")
		default:
			h.logger.Error().Err(err).Msg("Failed to register user")
			writeError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to log user in")
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

type ingestResponse struct {
	Status string `json:"status"`
	*domain.IngestResult
}

func (h *Handlers) IngestProducts(w http.ResponseWriter, r *http.Request) {
	h.respondIngest(w, r)(h.ingestion.IngestProducts(r.Context(), tenantFromContext(r)))
}

func (h *Handlers) IngestOrders(w http.ResponseWriter, r *http.Request) {
	h.respondIngest(w, r)(h.ingestion.IngestOrders(r.Context(), tenantFromContext(r)))
}

func (h *Handlers) IngestCustomers(w http.ResponseWriter, r *http.Request) {
	h.respondIngest(w, r)(h.ingestion.IngestCustomers(r.Context(), tenantFromContext(r)))
}

func (h *Handlers) respondIngest(w http.ResponseWriter, r *http.Request) func(*domain.IngestResult, error) {
	return func(result *domain.IngestResult, err error) {
		if err != nil {
			h.writeIngestError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ingestResponse{Status: "success", IngestResult: result})
	}
}

type connectionResponse struct {
	Status string `json:"status"`
	*domain.ConnectionInfo
}

func (h *Handlers) TestConnection(w http.ResponseWriter, r *http.Request) {
	info, err := h.ingestion.TestConnection(r.Context(), tenantFromContext(r))
	if err != nil {
		h.writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, connectionResponse{Status: "success", ConnectionInfo: info})
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	snapshot, err := h.dashboard.Snapshot(r.Context(), tenantFromContext(r), query.Get("date_from"), query.Get("date_to"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			writeError(w, http.StatusBadRequest, "Invalid date format. Use ISO 8601 dates.")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to build dashboard snapshot")
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeIngestError maps ingestion failures onto HTTP statuses. Adapter
// failures carry their own caller-facing messages; everything else collapses
// to a generic error.
func (h *Handlers) writeIngestError(w http.ResponseWriter, err error) {
	var srcErr *shopify.SourceError
	if errors.As(err, &srcErr) {
		writeError(w, sourceErrorStatus(srcErr), srcErr.Message())
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Tenant not found")
		return
	}
	h.logger.Error().Err(err).Msg("Ingestion failed")
	writeError(w, http.StatusInternalServerError, "Failed to ingest data")
}

func sourceErrorStatus(err *shopify.SourceError) int {
	switch err.Kind {
	case shopify.FailureUnauthorized:
		return http.StatusUnauthorized
	case shopify.FailureRateLimited:
		return http.StatusTooManyRequests
	case shopify.FailureTimeout:
		return http.StatusGatewayTimeout
	case shopify.FailureConnection:
		return http.StatusServiceUnavailable
	case shopify.FailureUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func tenantFromContext(r *http.Request) uuid.UUID {
	return domain.GetTenantID(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}
