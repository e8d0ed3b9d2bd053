package server

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
	"github.com/oszuidwest/zwfm-errmatch/internal/config"
	"github.com/oszuidwest/zwfm-errmatch/internal/events"
	"github.com/oszuidwest/zwfm-errmatch/internal/schema"
	"github.com/oszuidwest/zwfm-errmatch/internal/types"
)

// WSCommand is a command received from a WebSocket client.
type WSCommand struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// validateData is the payload of validate/<schema> commands.
type validateData struct {
	Map     string          `json:"map"`
	Payload json.RawMessage `json:"payload"`
}

// mapData is the payload of maps/* commands.
type mapData struct {
	Name   string            `json:"name"`
	Config *config.MapConfig `json:"config,omitempty"`
}

// CommandHandler processes WebSocket commands.
type CommandHandler struct {
	cfg     *config.Config
	service *Service
}

// NewCommandHandler creates a new command handler.
func NewCommandHandler(cfg *config.Config, service *Service) *CommandHandler {
	return &CommandHandler{cfg: cfg, service: service}
}

// Handle processes a WebSocket command and sends its result on send.
// Commands use slash-style format: namespace/action (e.g., "validate/signup", "maps/list")
// authorized reports whether the connection presented the API key; map
// changes are refused without it.
func (h *CommandHandler) Handle(cmd WSCommand, send chan<- any, authorized bool) {
	namespace, action, _ := strings.Cut(cmd.Type, "/")

	switch namespace {
	case "validate":
		h.handleValidate(action, cmd, send)
	case "schemas":
		h.handleSchemas(action, cmd, send)
	case "kinds":
		h.handleKinds(action, cmd, send)
	case "maps":
		h.handleMaps(action, cmd, send, authorized)
	default:
		slog.Warn("unknown WebSocket command", "type", cmd.Type)
		SendError(send, cmd.Type, goerr.New("unknown command", goerr.V("type", cmd.Type)))
	}
}

// handleValidate validates the payload against the schema named by action.
func (h *CommandHandler) handleValidate(schemaName string, cmd WSCommand, send chan<- any) {
	var data validateData
	if err := json.Unmarshal(cmd.Data, &data); err != nil {
		SendError(send, cmd.Type, goerr.Wrap(err, "invalid JSON"))
		return
	}

	resolved, err := h.service.Validate(events.SourceWebSocket, schemaName, data.Map, data.Payload)
	if err != nil {
		SendError(send, cmd.Type, err)
		return
	}
	if resolved != nil {
		SendResolvedError(send, cmd.Type, resolved)
		return
	}
	SendSuccess(send, cmd.Type, nil)
}

// handleSchemas routes schemas/* commands
func (h *CommandHandler) handleSchemas(action string, cmd WSCommand, send chan<- any) {
	switch action {
	case "list":
		SendSuccess(send, cmd.Type, SchemaInfos(h.service.Schemas().All()))
	default:
		slog.Warn("unknown schemas action", "action", action)
	}
}

// handleKinds routes kinds/* commands
func (h *CommandHandler) handleKinds(action string, cmd WSCommand, send chan<- any) {
	switch action {
	case "list":
		SendSuccess(send, cmd.Type, KindInfos(""))
	default:
		slog.Warn("unknown kinds action", "action", action)
	}
}

// handleMaps routes maps/* commands
func (h *CommandHandler) handleMaps(action string, cmd WSCommand, send chan<- any, authorized bool) {
	if action == "list" {
		SendSuccess(send, cmd.Type, h.cfg.MapNames())
		return
	}

	if (action == "update" || action == "delete") && !authorized {
		slog.Warn("rejected unauthenticated map change", "type", cmd.Type)
		SendError(send, cmd.Type, goerr.Wrap(ErrUnauthorized, "map changes require an API key", goerr.V("type", cmd.Type)))
		return
	}

	var data mapData
	if err := json.Unmarshal(cmd.Data, &data); err != nil {
		SendError(send, cmd.Type, goerr.Wrap(err, "invalid JSON"))
		return
	}

	switch action {
	case "get":
		mc, ok := h.cfg.MapConfig(data.Name)
		if !ok {
			SendError(send, cmd.Type, goerr.Wrap(config.ErrUnknownMap, "map not found", goerr.V("map", data.Name)))
			return
		}
		SendSuccess(send, cmd.Type, mc)
	case "update":
		if data.Config == nil {
			SendError(send, cmd.Type, goerr.New("config is required"))
			return
		}
		if err := h.cfg.SetMap(data.Name, *data.Config); err != nil {
			SendError(send, cmd.Type, err)
			return
		}
		slog.Info("error map updated", "map", data.Name)
		SendSuccess(send, cmd.Type, nil)
	case "delete":
		if err := h.cfg.RemoveMap(data.Name); err != nil {
			SendError(send, cmd.Type, err)
			return
		}
		slog.Info("error map removed", "map", data.Name)
		SendSuccess(send, cmd.Type, nil)
	default:
		slog.Warn("unknown maps action", "action", action)
	}
}

// KindInfos lists the recognized kinds, optionally restricted to category.
func KindInfos(category errmatch.Category) []types.KindInfo {
	kinds := errmatch.Kinds()
	if category != "" {
		kinds = errmatch.KindsOf(category)
	}
	out := make([]types.KindInfo, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, types.KindInfo{Kind: string(k), Category: string(k.Category())})
	}
	return out
}

// SchemaInfos describes the given schemas.
func SchemaInfos(schemas []schema.Schema) []types.SchemaInfo {
	out := make([]types.SchemaInfo, 0, len(schemas))
	for _, sc := range schemas {
		out = append(out, types.SchemaInfo{Name: sc.Name, Description: sc.Description})
	}
	return out
}
