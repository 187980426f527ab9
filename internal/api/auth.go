package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var errPermissionDenied = fmt.Errorf("permission denied")

// HTTPAuth provides API-key auth, per-key permissions and per-caller rate
// limiting. The fixed 60-hits-per-minute window lives in the hit counter
// (redis with in-memory failover); the token bucket on top only smooths
// bursts within a window.
type HTTPAuth struct {
	cfg      config.APIConfig
	clients  map[string]config.APIClientKey
	hits     domain.HitCounter
	limiters sync.Map // map[string]*rate.Limiter
	logger   *zerolog.Logger
}

func NewHTTPAuth(cfg config.APIConfig, hits domain.HitCounter, logger *zerolog.Logger) *HTTPAuth {
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, clients: m, hits: hits, logger: logger}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Liveness probes carry no credentials.
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(r); err != nil {
				statusCode := http.StatusUnauthorized
				if err == errPermissionDenied {
					statusCode = http.StatusForbidden
				}
				writeError(w, statusCode, err.Error())
				return
			}
		}

		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	apiKey := strings.TrimSpace(r.Header.Get(a.headerName()))
	if apiKey == "" {
		return fmt.Errorf("missing api key")
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return fmt.Errorf("invalid api key")
	}

	return a.checkPermissions(client, r)
}

// checkPermissions grants everything to a key with no permission list.
func (a *HTTPAuth) checkPermissions(client config.APIClientKey, r *http.Request) error {
	required := requiredPermission(r)
	if required == "" {
		return nil
	}
	if len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

func requiredPermission(r *http.Request) string {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/v1/tickets"):
		return "write:tickets"
	case strings.HasPrefix(path, "/api/v1/orders"):
		return "write:orders"
	case strings.HasPrefix(path, "/api/v1/services"):
		if r.Method == http.MethodGet {
			return "read:catalog"
		}
		return "write:catalog"
	case path == "/api/v1/rewards/claim":
		return "write:rewards"
	case path == "/api/v1/rewards/balance" || strings.HasPrefix(path, "/api/v1/vouchers"):
		return "read:rewards"
	case strings.HasPrefix(path, "/api/v1/ops/"):
		return "ops:sweep"
	}
	return ""
}

func (a *HTTPAuth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.Hits <= 0 {
		return nil
	}

	key := a.clientKey(r)

	if lim := a.getLimiter(key); !lim.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}

	window := time.Duration(a.cfg.RateLimit.Window) * time.Second
	allowed, err := a.hits.CheckRateLimit(r.Context(), key, a.cfg.RateLimit.Hits, window)
	if err != nil {
		// Counter backend down; the token bucket above already passed.
		a.logger.Warn().Err(err).Msg("rate limit check failed, allowing request")
		return nil
	}
	if !allowed {
		return fmt.Errorf("rate limit exceeded")
	}
	return nil
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.headerName())); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *HTTPAuth) headerName() string {
	h := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if h == "" {
		h = "x-api-key"
	}
	return h
}

func (a *HTTPAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	window := a.cfg.RateLimit.Window
	if window <= 0 {
		window = 60
	}
	rps := float64(a.cfg.RateLimit.Hits) / float64(window)

	lim := rate.NewLimiter(rate.Limit(rps), a.cfg.RateLimit.Hits)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
