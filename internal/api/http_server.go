package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/database"
	"hotelops/internal/metrics"
	"hotelops/internal/monitor"
	"hotelops/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the ops platform over a versioned JSON API.
type HTTPServer struct {
	cfg     config.APIConfig
	tickets *service.TicketService
	orders  *service.OrderService
	catalog *service.CatalogService
	rewards *service.RewardService
	sweeper *monitor.Sweeper
	auth    *HTTPAuth
	server  *http.Server
	logger  *zerolog.Logger
}

type Services struct {
	Tickets *service.TicketService
	Orders  *service.OrderService
	Catalog *service.CatalogService
	Rewards *service.RewardService
	Sweeper *monitor.Sweeper
}

func NewHTTPServer(cfg config.APIConfig, svc Services, auth *HTTPAuth, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:     cfg,
		tickets: svc.Tickets,
		orders:  svc.Orders,
		catalog: svc.Catalog,
		rewards: svc.Rewards,
		sweeper: svc.Sweeper,
		auth:    auth,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tickets", srv.handleTickets)
	mux.HandleFunc("/api/v1/tickets/", srv.handleTicketByID)
	mux.HandleFunc("/api/v1/orders", srv.handleOrders)
	mux.HandleFunc("/api/v1/orders/", srv.handleOrderByID)
	mux.HandleFunc("/api/v1/services", srv.handleServices)
	mux.HandleFunc("/api/v1/rewards/claim", srv.handleRewardsClaim)
	mux.HandleFunc("/api/v1/rewards/balance", srv.handleRewardsBalance)
	mux.HandleFunc("/api/v1/vouchers", srv.handleVouchers)
	mux.HandleFunc("/api/v1/ops/sweep", srv.handleSweep)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the full middleware chain, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{"ok": false, "error": message})
}

// writeServiceError maps layer errors onto HTTP status codes: validation
// sentinels to 400, missing rows to 404, closed-order and balance conflicts
// to 409, everything else to 500.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrTicketNotFound),
		errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrHotelNotFound),
		errors.Is(err, database.ErrServiceNotFound),
		errors.Is(err, database.ErrVoucherNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrOrderClosed),
		errors.Is(err, database.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		service.ErrIDRequired,
		service.ErrHotelRequired,
		service.ErrServiceKeyRequired,
		service.ErrItemKeyRequired,
		service.ErrUserRequired,
		service.ErrStatusRequired,
		service.ErrInvalidStatus,
		service.ErrInvalidQty,
		service.ErrInvalidSLA,
		service.ErrAmountNotPositive,
		service.ErrAmountDenomination,
		service.ErrAmountBelowMinimum,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
