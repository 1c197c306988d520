package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bascanada/fhirquery/pkg/config"
	"github.com/bascanada/fhirquery/pkg/fhir/search"
)

// Server represents the API server instance.
type Server struct {
	mu          sync.RWMutex
	config      *config.Config
	configPath  string
	validator   *search.Validator
	router      *http.ServeMux
	httpServer  *http.Server
	logger      *slog.Logger
	eventBroker *EventBroker
	port        string
	host        string
	openapiSpec []byte
}

// NewServer creates a new API server instance. cfg may be nil, in which
// case the validator runs with its built-in defaults.
func NewServer(host, port string, cfg *config.Config, configPath string, logger *slog.Logger, openapiSpec []byte) *Server {
	router := http.NewServeMux()
	s := &Server{
		config:      cfg,
		configPath:  configPath,
		validator:   buildValidator(cfg),
		router:      router,
		logger:      logger,
		eventBroker: NewEventBroker(logger),
		port:        port,
		host:        host,
		openapiSpec: openapiSpec,
	}
	s.routes()
	return s
}

func buildValidator(cfg *config.Config) *search.Validator {
	opts := search.Options{}
	if cfg != nil {
		opts.Strict = cfg.Validator.Strict
		opts.ResourceTypes = cfg.Validator.CustomResourceTypes
		opts.Modifiers = cfg.Validator.CustomModifiers
	}
	return search.New(opts)
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.healthHandler)
	s.router.HandleFunc("/validate", s.validateHandler)
	s.router.HandleFunc("/validate/batch", s.validateBatchHandler)
	s.router.HandleFunc("/events", s.eventsHandler)
	s.router.HandleFunc("/openapi.yaml", s.openapiHandler)
}

// ReloadConfig re-reads the config file and swaps in a fresh validator.
func (s *Server) ReloadConfig(ctx context.Context) error {
	if s.configPath == "" {
		return errors.New("no config file to reload")
	}

	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.config = cfg
	s.validator = buildValidator(cfg)
	s.mu.Unlock()

	return nil
}

func (s *Server) currentValidator() *search.Validator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validator
}

// Start runs the HTTP server and blocks until a signal is received.
func (s *Server) Start() error {
	handler := s.chainMiddleware(s.router, s.recoveryMiddleware, s.corsMiddleware, s.requestIDMiddleware, s.loggingMiddleware)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	// Create listener first to get the actual assigned port (important when port=0)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	actualAddr := listener.Addr().(*net.TCPAddr)
	actualPort := actualAddr.Port

	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting server", "addr", listener.Addr().String())
		fmt.Printf("Server listening on port %d\n", actualPort)
		serverErrors <- s.httpServer.Serve(listener)
	}()

	// Watch the config file for hot reload when one is in use.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if s.configPath != "" {
		watcher, err := NewConfigWatcher(s, s.configPath, s.logger)
		if err != nil {
			s.logger.Warn("config watcher unavailable", "err", err)
		} else {
			if err := watcher.Start(watchCtx); err != nil {
				s.logger.Warn("config watcher failed to start", "err", err)
			}
			defer watcher.Stop()
		}
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		s.logger.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("graceful shutdown failed", "err", err)
			return s.httpServer.Close()
		}
		s.logger.Info("server shutdown gracefully")
	}

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.httpServer.Shutdown(ctx)
}
