// Package server is the HTTP boundary of the API: it routes requests through
// the route tree, runs the resolved descriptor and renders the envelope.
package server

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kyleking/supplier-api/internal/config"
	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/formatter"
	"github.com/kyleking/supplier-api/internal/logging"
	"github.com/kyleking/supplier-api/internal/metrics"
	"github.com/kyleking/supplier-api/internal/routing"
)

// Options configures a Server
type Options struct {
	Config       config.ServerConfig
	QueryTimeout time.Duration
	Logger       *logging.Logger
}

// Server serves the supplier API from one database
type Server struct {
	cfg          config.ServerConfig
	db           *sql.DB
	tree         *routing.Tree
	metrics      *metrics.Metrics
	logger       *logging.Logger
	docs         string
	queryTimeout time.Duration
	handler      http.Handler
}

// New builds a server. The route tree is shared read-only by every request.
func New(db *sql.DB, tree *routing.Tree, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}

	s := &Server{
		cfg:          opts.Config,
		db:           db,
		tree:         tree,
		logger:       logger,
		docs:         formatter.NewFormatter().EndpointsHTML(routing.Endpoints()),
		queryTimeout: opts.QueryTimeout,
	}

	if opts.Config.MetricsEnabled {
		s.metrics = metrics.New()
	}

	s.handler = s.routes()

	return s
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	// The route tree sees the path exactly as sent
	router.SkipClean(true)
	router.UseEncodedPath()

	router.Use(s.requestID, s.logRequests, s.recoverPanics)

	if s.metrics != nil {
		router.Handle(metrics.Path, s.metrics.Handler()).Methods(http.MethodGet)
	}

	router.PathPrefix("/").HandlerFunc(s.handleAPI)

	if s.metrics != nil {
		return s.metrics.InstrumentHandler(router)
	}

	return router
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server's collectors, nil when disabled
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       config.Duration(s.cfg.ReadTimeout),
		ReadHeaderTimeout: config.Duration(s.cfg.ReadTimeout),
		WriteTimeout:      config.Duration(s.cfg.WriteTimeout),
	}

	serveErr := make(chan error, 1)

	go func() {
		s.logger.WithField("address", l.Addr().String()).Info("Listening")
		serveErr <- srv.Serve(l)
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, errors.ErrTypeConnection, "server stopped")
		}

		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")

	timeout := config.Duration(s.cfg.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, errors.ErrTypeInternal, "graceful shutdown failed")
	}

	return nil
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig

	l, err := lc.Listen(ctx, "tcp", s.cfg.Address())
	if err != nil {
		return errors.Wrapf(err, errors.ErrTypeConnection, "failed to listen on %s", s.cfg.Address()).
			WithSuggestion("Check that the port is free or choose another with --port")
	}

	return s.Serve(ctx, l)
}
