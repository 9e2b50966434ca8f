package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"shopify-insights-service/internal/application"
	"shopify-insights-service/internal/domain"
)

// RequireAuth resolves the bearer token to a user and puts the user's tenant
// identity on the request context. Handlers behind it can rely on
// domain.GetTenantID returning a real tenant.
func RequireAuth(auth *application.AuthService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.Debug().Err(err).Msg("Rejected bearer token")
				writeError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			ctx := domain.WithTenantID(r.Context(), user.TenantID)
			ctx = domain.WithUserEmail(ctx, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
