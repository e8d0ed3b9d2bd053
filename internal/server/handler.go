// Package server provides the validation service and WebSocket command
// handling behind the HTTP API.
package server

import (
	"cmp"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
	"github.com/oszuidwest/zwfm-errmatch/internal/config"
	"github.com/oszuidwest/zwfm-errmatch/internal/events"
	"github.com/oszuidwest/zwfm-errmatch/internal/schema"
	"github.com/oszuidwest/zwfm-errmatch/internal/types"
	"github.com/oszuidwest/zwfm-errmatch/internal/validation"
)

// ErrInvalidJSON is returned when a payload cannot be decoded into its schema.
var ErrInvalidJSON = errors.New("invalid JSON")

// Recorder receives resolved failures. *events.Logger satisfies it.
type Recorder interface {
	Log(event *events.Resolution) error
}

// Service validates payloads against registered schemas and resolves each
// failed validation to a single error. It is safe for concurrent use.
type Service struct {
	cfg      *config.Config
	schemas  *schema.Registry
	validate *validation.Validator
	recorder Recorder
}

// NewService creates a Service. recorder may be nil.
func NewService(cfg *config.Config, schemas *schema.Registry, recorder Recorder) *Service {
	return &Service{
		cfg:      cfg,
		schemas:  schemas,
		validate: validation.New(),
		recorder: recorder,
	}
}

// Schemas returns the schema registry.
func (s *Service) Schemas() *schema.Registry {
	return s.schemas
}

// Validate decodes raw into the named schema and validates it with the named
// error map. It returns a nil *ResolvedError when the payload is valid.
func (s *Service) Validate(source events.Source, schemaName, mapName string, raw []byte) (*types.ResolvedError, error) {
	mapName = cmp.Or(mapName, config.DefaultMapName)

	sc, err := s.schemas.Lookup(schemaName)
	if err != nil {
		return nil, err
	}
	m, err := s.cfg.Map(mapName)
	if err != nil {
		return nil, err
	}

	data := sc.New()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, goerr.Wrap(ErrInvalidJSON, err.Error(), goerr.V("schema", schemaName))
	}

	err = s.validate.Check(data, errmatch.Match(m, types.NewResolvedError))
	if err == nil {
		return nil, nil
	}

	var resolved *types.ResolvedError
	if !errors.As(err, &resolved) {
		return nil, err
	}

	s.record(source, schemaName, mapName, resolved)
	return resolved, nil
}

func (s *Service) record(source events.Source, schemaName, mapName string, resolved *types.ResolvedError) {
	if s.recorder == nil {
		return
	}
	event := &events.Resolution{
		Source:  source,
		Schema:  schemaName,
		Map:     mapName,
		Kind:    resolved.Kind,
		Field:   resolved.Field,
		Message: resolved.Message,
		Index:   resolved.Index,
		Count:   resolved.Count,
	}
	if err := s.recorder.Log(event); err != nil {
		slog.Warn("failed to record resolution", "schema", schemaName, "error", err)
	}
}

// --- Response helpers ---

// SendSuccess sends a success response for a command.
func SendSuccess(send chan<- any, cmdType string, data any) {
	trySend(send, cmdType, types.WSCommandResult{
		Type:    cmdType + "_result",
		Success: true,
		Data:    data,
	})
}

// SendError sends an error response for a command.
func SendError(send chan<- any, cmdType string, err error) {
	result := map[string]any{
		"type":    cmdType + "_result",
		"success": false,
		"error":   err.Error(),
	}
	trySend(send, cmdType, result)
}

// SendResolvedError sends the single resolved error of a failed validation.
func SendResolvedError(send chan<- any, cmdType string, resolved *types.ResolvedError) {
	trySend(send, cmdType, types.WSCommandResult{
		Type:    cmdType + "_result",
		Success: false,
		Error:   resolved,
	})
}

// trySend attempts to send a message, logging a warning if the channel is full.
func trySend(send chan<- any, cmdType string, msg any) {
	select {
	case send <- msg:
	default:
		slog.Warn("failed to send response: channel full or closed", "type", cmdType)
	}
}
