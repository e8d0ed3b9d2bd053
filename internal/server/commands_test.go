package server_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/oszuidwest/zwfm-errmatch/internal/config"
	"github.com/oszuidwest/zwfm-errmatch/internal/server"
	"github.com/oszuidwest/zwfm-errmatch/internal/types"
)

func handle(t *testing.T, h *server.CommandHandler, cmdType, data string) any {
	t.Helper()
	return handleAs(t, h, true, cmdType, data)
}

func handleAs(t *testing.T, h *server.CommandHandler, authorized bool, cmdType, data string) any {
	t.Helper()
	send := make(chan any, 1)
	cmd := server.WSCommand{Type: cmdType}
	if data != "" {
		cmd.Data = json.RawMessage(data)
	}
	h.Handle(cmd, send, authorized)

	select {
	case msg := <-send:
		return msg
	default:
		t.Fatalf("no response for %s", cmdType)
		return nil
	}
}

func TestCommands_Validate(t *testing.T) {
	svc, cfg, _ := newService(t)
	h := server.NewCommandHandler(cfg, svc)

	msg := handle(t, h, "validate/signup", `{"payload":`+validSignup+`}`)
	res, ok := msg.(types.WSCommandResult)
	gt.Bool(t, ok).True()
	gt.Value(t, res.Type).Equal("validate/signup_result")
	gt.Bool(t, res.Success).True()

	msg = handle(t, h, "validate/signup", `{"payload":{"username":"alice"}}`)
	res, ok = msg.(types.WSCommandResult)
	gt.Bool(t, ok).True()
	gt.Bool(t, res.Success).False()
	gt.Value(t, res.Error).NotNil().Required()
	gt.Value(t, res.Error.Message).Equal("age is required")
}

func TestCommands_ValidateErrors(t *testing.T) {
	svc, cfg, _ := newService(t)
	h := server.NewCommandHandler(cfg, svc)

	for _, cmdType := range []string{"validate/nope", "unknown/thing"} {
		msg := handle(t, h, cmdType, `{"payload":{}}`)
		res, ok := msg.(map[string]any)
		gt.Bool(t, ok).True()
		gt.Value(t, res["success"]).Equal(any(false))
	}
}

func TestCommands_Lists(t *testing.T) {
	svc, cfg, _ := newService(t)
	h := server.NewCommandHandler(cfg, svc)

	res := handle(t, h, "schemas/list", "").(types.WSCommandResult)
	schemas, ok := res.Data.([]types.SchemaInfo)
	gt.Bool(t, ok).True()
	gt.Array(t, schemas).Length(4)

	res = handle(t, h, "kinds/list", "").(types.WSCommandResult)
	kinds, ok := res.Data.([]types.KindInfo)
	gt.Bool(t, ok).True()
	gt.Array(t, kinds).Length(114)

	res = handle(t, h, "maps/list", "").(types.WSCommandResult)
	gt.Value(t, res.Data).Equal(any([]string{config.DefaultMapName}))
}

func TestCommands_Maps(t *testing.T) {
	svc, cfg, _ := newService(t)
	h := server.NewCommandHandler(cfg, svc)

	res := handle(t, h, "maps/update", `{"name":"terse","config":{"messages":{"any.required":"A"}}}`).(types.WSCommandResult)
	gt.Bool(t, res.Success).True()

	res = handle(t, h, "maps/get", `{"name":"terse"}`).(types.WSCommandResult)
	mc, ok := res.Data.(config.MapConfig)
	gt.Bool(t, ok).True()
	gt.Value(t, mc.Messages["any.required"]).Equal("A")

	res = handle(t, h, "maps/delete", `{"name":"terse"}`).(types.WSCommandResult)
	gt.Bool(t, res.Success).True()

	failed := handle(t, h, "maps/get", `{"name":"terse"}`).(map[string]any)
	gt.Value(t, failed["success"]).Equal(any(false))

	failed = handle(t, h, "maps/delete", `{"name":"default"}`).(map[string]any)
	gt.Value(t, failed["success"]).Equal(any(false))
}

func TestCommands_MapChangesRequireAuthorization(t *testing.T) {
	svc, cfg, _ := newService(t)
	h := server.NewCommandHandler(cfg, svc)
	gt.NoError(t, cfg.SetMap("terse", config.MapConfig{Fallback: "big"})).Required()

	for _, tc := range []struct{ cmdType, data string }{
		{"maps/delete", `{"name":"terse"}`},
		{"maps/update", `{"name":"terse","config":{"fallback":"small"}}`},
		{"maps/update", `{"name":"fresh","config":{"fallback":"x"}}`},
	} {
		t.Run(tc.cmdType, func(t *testing.T) {
			failed, ok := handleAs(t, h, false, tc.cmdType, tc.data).(map[string]any)
			gt.Bool(t, ok).True()
			gt.Value(t, failed["success"]).Equal(any(false))
		})
	}

	mc, ok := cfg.MapConfig("terse")
	gt.Bool(t, ok).True()
	gt.Value(t, mc.Fallback).Equal("big")
	gt.Value(t, cfg.MapNames()).Equal([]string{config.DefaultMapName, "terse"})

	// Reads stay open.
	res := handleAs(t, h, false, "maps/get", `{"name":"terse"}`).(types.WSCommandResult)
	gt.Bool(t, res.Success).True()
	res = handleAs(t, h, false, "validate/signup", `{"payload":`+validSignup+`}`).(types.WSCommandResult)
	gt.Bool(t, res.Success).True()
}

func TestCheckAPIKey(t *testing.T) {
	gt.NoError(t, server.CheckAPIKey("secret", "secret"))
	gt.Error(t, server.CheckAPIKey("secret", "guess")).Is(server.ErrUnauthorized)
	gt.Error(t, server.CheckAPIKey("secret", "")).Is(server.ErrUnauthorized)
	gt.Error(t, server.CheckAPIKey("", "")).Is(server.ErrAPIKeyNotConfigured)
}

func TestKindInfos(t *testing.T) {
	gt.Array(t, server.KindInfos("lazy")).Length(2)
	gt.Array(t, server.KindInfos("")).Length(114)
}
