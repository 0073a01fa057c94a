// Package api exposes the checking pipeline and document store over HTTP.
//
// The service speaks JSON under /api/v1 and carries the operational endpoints
// /healthz and /metrics at the root. All request logging goes through zap;
// nothing is ever written to stdout.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/checker"
	"github.com/avandersen/prosecheck/internal/metrics"
	"github.com/avandersen/prosecheck/internal/storage"
)

const (
	// Checks wait on LLM round trips, so the write timeout is generous
	// compared to the read side.
	readTimeout     = 15 * time.Second
	writeTimeout    = 2 * time.Minute
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Config carries the dependencies the HTTP service is built from. Metrics may
// be nil; the /metrics endpoint is simply not registered then.
type Config struct {
	Addr    string
	Checker *checker.Checker
	Store   storage.Storage
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Server wraps the gin engine in an http.Server with sane timeouts
type Server struct {
	srv    *http.Server
	engine *gin.Engine
	log    *zap.Logger
}

// NewServer builds the route tree and the underlying http.Server. It does
// not start listening; call Start.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("api")

	engine := newRouter(cfg, log)

	return &Server{
		engine: engine,
		log:    log,
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
	}
}

// Start listens and serves until Shutdown is called. A normal shutdown is
// not reported as an error.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Handler returns the route tree for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}
