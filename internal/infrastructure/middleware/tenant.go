package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"shopify-mirror/internal/domain"

	"github.com/rs/zerolog"
)

// TenantHeader names the request header carrying the tenant id
const TenantHeader = "X-Tenant-ID"

// TenantQueryParam names the query parameter carrying the tenant id
const TenantQueryParam = "tenant_id"

// TenantIDMiddleware puts the request's tenant id in the context.
// The header wins over the query parameter; requests naming neither use DefaultTenantID.
func TenantIDMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimSpace(r.Header.Get(TenantHeader))
			if raw == "" {
				raw = strings.TrimSpace(r.URL.Query().Get(TenantQueryParam))
			}

			tenantID := domain.DefaultTenantID
			if raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					logger.Debug().Str("tenant", raw).Msg("Rejected invalid tenant id")
					writeError(w, http.StatusBadRequest, "invalid tenant id: "+raw)
					return
				}
				tenantID = id
			}

			ctx := domain.WithTenantID(r.Context(), tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isPublicPath(path string) bool {
	return path == "/health" ||
		path == "/metrics" ||
		strings.HasPrefix(path, "/swagger/")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
