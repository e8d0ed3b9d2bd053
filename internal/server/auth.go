package server

import (
	"crypto/subtle"
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// APIKeyHeader carries the API key on HTTP requests and WebSocket handshakes.
const APIKeyHeader = "X-API-Key"

// Authorization errors.
var (
	ErrAPIKeyNotConfigured = errors.New("API key not configured")
	ErrUnauthorized        = errors.New("unauthorized")
)

// CheckAPIKey compares the provided key with the configured one in
// constant time. An empty configured key rejects every request.
func CheckAPIKey(configured, provided string) error {
	if configured == "" {
		return ErrAPIKeyNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) != 1 {
		return goerr.Wrap(ErrUnauthorized, "invalid API key")
	}
	return nil
}
