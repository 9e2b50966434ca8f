package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/ports"
)

const (
	// Shopify caps list endpoints at 250 records per page. Pagination beyond
	// the first page is not followed.
	listLimit = 250

	defaultListTimeout  = 30 * time.Second
	defaultProbeTimeout = 10 * time.Second
)

// Config holds the live source settings, injected at construction so tests
// can run mock and live sources side by side.
type Config struct {
	APIVersion   string
	ListTimeout  time.Duration
	ProbeTimeout time.Duration

	// BaseURL overrides the https://{store_url} scheme and host, for tests.
	BaseURL string
}

// LiveSource fetches payloads from the Shopify Admin REST API. It issues a
// single request per resource, authenticated with the tenant's access token,
// and classifies every failure into the SourceError taxonomy.
type LiveSource struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// NewLiveSource creates a live source for the given API version.
func NewLiveSource(cfg Config, logger zerolog.Logger) *LiveSource {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2023-10"
	}
	if cfg.ListTimeout <= 0 {
		cfg.ListTimeout = defaultListTimeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	return &LiveSource{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger,
	}
}

// Mode reports that this source talks to the real API.
func (s *LiveSource) Mode() domain.Mode {
	return domain.ModeLive
}

// FetchRecords returns the first page of the named list resource.
func (s *LiveSource) FetchRecords(ctx context.Context, creds ports.Credentials, kind ports.ResourceKind) ([]ports.Record, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprint(listLimit))
	if kind == ports.ResourceOrders {
		query.Set("status", "any")
	}

	payload, err := s.get(ctx, creds, string(kind)+".json?"+query.Encode(), s.cfg.ListTimeout)
	if err != nil {
		return nil, err
	}

	raw, ok := payload[string(kind)]
	if !ok {
		return nil, Unknown(fmt.Sprintf("response missing %q key", kind))
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, Unknown(fmt.Sprintf("response %q is not a list", kind))
	}

	records := make([]ports.Record, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, ports.Record(rec))
		}
	}

	s.logger.Debug().
		Str("resource", string(kind)).
		Str("store", creds.StoreURL).
		Int("records", len(records)).
		Msg("Fetched live payload")

	return records, nil
}

// FetchShop performs the connectivity probe against shop.json.
func (s *LiveSource) FetchShop(ctx context.Context, creds ports.Credentials) (*ports.ShopInfo, error) {
	payload, err := s.get(ctx, creds, "shop.json", s.cfg.ProbeTimeout)
	if err != nil {
		return nil, err
	}

	shop, ok := payload["shop"].(map[string]any)
	if !ok {
		return nil, Unknown("response missing shop object")
	}

	info := &ports.ShopInfo{
		Name:   stringValue(shop, "name", "Unknown"),
		Domain: stringValue(shop, "domain", "Unknown"),
		Plan:   stringValue(shop, "plan_name", ""),
	}
	if info.Plan == "" {
		info.Plan = stringValue(shop, "plan_display_name", "Unknown")
	}
	return info, nil
}

// get issues one authenticated request and decodes the JSON body. Numbers are
// decoded as json.Number so large Shopify ids survive intact.
func (s *LiveSource) get(ctx context.Context, creds ports.Credentials, resource string, timeout time.Duration) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/admin/api/%s/%s", s.baseURL(creds), s.cfg.APIVersion, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, Unknown(err.Error())
	}
	req.Header.Set("X-Shopify-Access-Token", creds.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, Unauthorized("access token rejected")
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, RateLimited("throttled by shopify")
	default:
		return nil, UpstreamError(resp.StatusCode, "unexpected status")
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, Unknown(fmt.Sprintf("decode response: %v", err))
	}
	return payload, nil
}

func (s *LiveSource) baseURL(creds ports.Credentials) string {
	if s.cfg.BaseURL != "" {
		return s.cfg.BaseURL
	}
	host := strings.TrimPrefix(creds.StoreURL, "https://")
	host = strings.TrimSuffix(host, "/")
	return "https://" + host
}

func classifyTransportError(err error) *SourceError {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout(err.Error())
	}
	return ConnectionFailure(err.Error())
}

func stringValue(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
