package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/oszuidwest/zwfm-errmatch/errmatch"
	"github.com/oszuidwest/zwfm-errmatch/internal/config"
	"github.com/oszuidwest/zwfm-errmatch/internal/events"
	"github.com/oszuidwest/zwfm-errmatch/internal/schema"
	"github.com/oszuidwest/zwfm-errmatch/internal/server"
	"github.com/oszuidwest/zwfm-errmatch/internal/types"
)

const (
	maxPayloadBytes = 1 << 20
	maxEventsLimit  = 500
)

// API response helpers

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// allowMethod writes 405 and returns false when r does not use method.
func (s *Server) allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrUnknownSchema), errors.Is(err, config.ErrUnknownMap):
		return http.StatusNotFound
	case errors.Is(err, server.ErrInvalidJSON):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleAPIValidate validates the request body against a schema.
// POST /api/validate?schema=name[&map=name]
func (s *Server) handleAPIValidate(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodPost) {
		return
	}

	query := r.URL.Query()
	schemaName := query.Get("schema")
	if schemaName == "" {
		s.writeError(w, http.StatusBadRequest, "schema query parameter is required")
		return
	}
	mapName := query.Get("map")
	if mapName == "" {
		mapName = config.DefaultMapName
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	resolved, err := s.service.Validate(events.SourceHTTP, schemaName, mapName, raw)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("validation failed", "schema", schemaName, "map", mapName, "error", err)
		}
		s.writeError(w, status, err.Error())
		return
	}

	resp := types.ValidateResponse{
		Valid:  resolved == nil,
		Schema: schemaName,
		Map:    mapName,
		Error:  resolved,
	}
	if resolved != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleAPISchemas lists the registered schemas.
// GET /api/schemas
func (s *Server) handleAPISchemas(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}
	s.writeJSON(w, http.StatusOK, server.SchemaInfos(s.service.Schemas().All()))
}

// handleAPIKinds lists the recognized failure kinds.
// GET /api/kinds[?category=string]
func (s *Server) handleAPIKinds(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}
	category := errmatch.Category(r.URL.Query().Get("category"))
	s.writeJSON(w, http.StatusOK, server.KindInfos(category))
}

// handleAPIMaps lists the configured error maps, or returns one by name.
// GET /api/maps[?name=default]
func (s *Server) handleAPIMaps(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeJSON(w, http.StatusOK, s.config.MapNames())
		return
	}

	mc, ok := s.config.MapConfig(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Error map not found")
		return
	}
	s.writeJSON(w, http.StatusOK, mc)
}

// handleAPIEvents returns the most recent resolution events, newest first.
// GET /api/events[?n=50]
func (s *Server) handleAPIEvents(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := config.DefaultEventsLimit
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		limit = min(n, maxEventsLimit)
	}

	snap := s.config.Snapshot()
	if !snap.HasAudit() {
		s.writeJSON(w, http.StatusOK, []events.Resolution{})
		return
	}

	entries, err := events.ReadLast(snap.AuditPath, limit)
	if err != nil {
		slog.Error("failed to read audit log", "path", snap.AuditPath, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to read audit log")
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// handleAPIVersion returns version information.
// GET /api/version
func (s *Server) handleAPIVersion(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.version.Info())
}
