// Package httpapi is the JSON-over-HTTP transport for the server. It
// translates requests into service calls and service errors into HTTP
// status codes; all business rules live in the services package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/logging"
	"github.com/dmitrijs2005/legacykeeper/internal/server/config"
	"github.com/dmitrijs2005/legacykeeper/internal/server/services"
)

type Server struct {
	address     string
	logger      logging.Logger
	accounts    *services.AccountService
	vault       *services.VaultService
	storage     *services.StorageService
	sweep       *services.SweepService
	jwtSecret   []byte
	sweepSecret string
}

func NewServer(cfg *config.Config, l logging.Logger, as *services.AccountService, vs *services.VaultService, ss *services.StorageService, sw *services.SweepService) *Server {
	return &Server{
		address:     cfg.EndpointAddrHTTP,
		logger:      l.With("module", "http_server"),
		accounts:    as,
		vault:       vs,
		storage:     ss,
		sweep:       sw,
		jwtSecret:   []byte(cfg.SecretKey),
		sweepSecret: cfg.SweepSecret,
	}
}

// Routes registers all endpoints and wraps them with recovery and
// request logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("GET /api/salt", s.handleGetSalt)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("POST /api/heartbeat", s.withAuth(s.handleHeartbeat))
	mux.Handle("GET /api/account", s.withAuth(s.handleGetAccount))
	mux.Handle("PUT /api/settings", s.withAuth(s.handleUpdateSettings))

	mux.Handle("GET /api/entries", s.withAuth(s.handleListEntries))
	mux.Handle("POST /api/entries", s.withAuth(s.handleAddEntry))
	mux.Handle("GET /api/entries/{id}", s.withAuth(s.handleGetEntry))
	mux.Handle("DELETE /api/entries/{id}", s.withAuth(s.handleDeleteEntry))
	mux.Handle("POST /api/entries/presign-put", s.withAuth(s.handlePresignPut))
	mux.Handle("GET /api/entries/{id}/presign-get", s.withAuth(s.handlePresignGet))

	mux.Handle("GET /api/heirs", s.withAuth(s.handleListHeirs))
	mux.Handle("POST /api/heirs", s.withAuth(s.handleAddHeir))
	mux.Handle("DELETE /api/heirs/{id}", s.withAuth(s.handleDeleteHeir))

	mux.Handle("POST /api/sweep", s.withSweepAuth(s.handleSweep))

	mux.HandleFunc("GET /legacy/{token}", s.handleHeirVault)

	// Recovery innermost so panics are caught before request logging.
	wrapped := s.recoveryMiddleware(mux)
	wrapped = s.loggingMiddleware(wrapped)
	return wrapped
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
