package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/oszuidwest/zwfm-errmatch/internal/config"
	"github.com/oszuidwest/zwfm-errmatch/internal/schema"
	"github.com/oszuidwest/zwfm-errmatch/internal/server"
)

// Server is an HTTP server exposing the validation API and WebSocket commands.
type Server struct {
	config   *config.Config
	service  *server.Service
	commands *server.CommandHandler
	upgrader *server.Upgrader
	version  *VersionChecker
}

// NewServer returns a new Server. recorder may be nil to disable the audit log.
func NewServer(cfg *config.Config, schemas *schema.Registry, recorder server.Recorder) *Server {
	service := server.NewService(cfg, schemas, recorder)

	return &Server{
		config:   cfg,
		service:  service,
		commands: server.NewCommandHandler(cfg, service),
		upgrader: server.NewUpgrader(cfg.Snapshot().AllowedOrigins),
		version:  NewVersionChecker(),
	}
}

// handleWebSocket handles bidirectional WebSocket communication for commands.
// Map changes are only accepted when the handshake carries the API key.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	authorized := server.CheckAPIKey(s.config.APIKey(), r.Header.Get(server.APIKeyHeader)) == nil

	conn, err := s.upgrader.Upgrade(w, r)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	// Only the writer goroutine writes to the connection.
	send := make(chan any, 16)

	go s.runWebSocketWriter(conn, send)

	s.runWebSocketReader(conn, send, authorized)
}

// runWebSocketWriter writes messages from the send channel to the connection.
func (s *Server) runWebSocketWriter(conn server.WebSocketConn, send <-chan any) {
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Debug("WebSocket close error", "error", err)
		}
	}()
	for msg := range send {
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// runWebSocketReader reads commands from the connection and dispatches them.
// It closes send when the connection ends.
func (s *Server) runWebSocketReader(conn server.WebSocketConn, send chan<- any, authorized bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in WebSocket reader", "panic", r)
		}
		close(send)
	}()

	for {
		var cmd server.WSCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		s.commands.Handle(cmd, send, authorized)
	}
}

// SetupRoutes configures HTTP routes and returns the handler.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWebSocket)

	mux.HandleFunc("/api/validate", s.handleAPIValidate)
	mux.HandleFunc("/api/schemas", s.handleAPISchemas)
	mux.HandleFunc("/api/kinds", s.handleAPIKinds)
	mux.HandleFunc("/api/maps", s.handleAPIMaps)
	mux.HandleFunc("/api/events", s.apiKeyAuth(s.handleAPIEvents))
	mux.HandleFunc("/api/version", s.handleAPIVersion)

	return securityHeaders(mux)
}

// securityHeaders returns middleware that wraps handlers with security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// apiKeyAuth returns middleware for API key authentication.
func (s *Server) apiKeyAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := server.CheckAPIKey(s.config.APIKey(), r.Header.Get(server.APIKeyHeader))
		switch {
		case errors.Is(err, server.ErrAPIKeyNotConfigured):
			s.writeError(w, http.StatusServiceUnavailable, "API key not configured")
		case err != nil:
			s.writeError(w, http.StatusUnauthorized, "Unauthorized")
		default:
			next(w, r)
		}
	}
}

// HTTPServer returns an *http.Server listening on the configured port.
// The caller starts it and shuts it down.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Snapshot().Port),
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
