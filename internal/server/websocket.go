package server

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// WebSocketConn is the interface for WebSocket connection operations.
type WebSocketConn interface {
	io.Closer
	WriteJSON(v any) error
	ReadJSON(v any) error
}

// Upgrader upgrades HTTP connections to WebSocket. It accepts same-origin,
// loopback, private-network and explicitly allowed origins.
type Upgrader struct {
	upgrader websocket.Upgrader
	allowed  map[string]struct{}
}

// NewUpgrader returns an Upgrader that additionally accepts the given
// origin hosts.
func NewUpgrader(allowedOrigins []string) *Upgrader {
	u := &Upgrader{allowed: make(map[string]struct{}, len(allowedOrigins))}
	for _, host := range allowedOrigins {
		u.allowed[strings.ToLower(host)] = struct{}{}
	}
	u.upgrader.CheckOrigin = u.CheckOrigin
	return u
}

// CheckOrigin reports whether the WebSocket connection origin is allowed.
func (u *Upgrader) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// Same-origin requests omit the Origin header
	if origin == "" {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		slog.Warn("rejected WebSocket connection: invalid origin URL", "origin", origin)
		return false
	}

	host := strings.ToLower(parsed.Hostname())

	if host == "localhost" {
		return true
	}
	if _, ok := u.allowed[host]; ok {
		return true
	}

	requestHost := r.Host
	if h, _, err := net.SplitHostPort(requestHost); err == nil {
		requestHost = h
	}
	if host == strings.ToLower(requestHost) {
		return true
	}

	ip := net.ParseIP(host)
	if ip != nil && (ip.IsLoopback() || ip.IsPrivate()) {
		return true
	}

	slog.Warn("rejected WebSocket connection", "origin", origin, "host", host)
	return false
}

// Upgrade upgrades an HTTP connection to WebSocket.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return u.upgrader.Upgrade(w, r, nil)
}
