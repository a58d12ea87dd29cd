package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Server runs the HTTP API as a managed service.
type Server struct {
	cfg    Config
	srv    *http.Server
	ln     net.Listener
	logger Logger
}

func NewServer(cfg Config, handler http.Handler, logger Logger) *Server {
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
	}
}

// Init binds the listen address so that a busy port fails startup.
func (s *Server) Init() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.ln = ln
	return nil
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("HTTP API listening on %s", s.ln.Addr())
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("HTTP server stopped: %v", err)
	}
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown: %v", err)
	}
}
