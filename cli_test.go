package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_Resolve(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")

	t.Run("valid payload", func(t *testing.T) {
		payload := writeFile(t, dir, "valid.json", validSignup)
		var out bytes.Buffer

		err := run(context.Background(), []string{"errmatch", "resolve", "--config", configPath, "--schema", "signup", payload}, &out)
		gt.NoError(t, err)
		gt.String(t, out.String()).Contains("valid")
		gt.String(t, out.String()).Contains("signup")
	})

	t.Run("invalid payload", func(t *testing.T) {
		payload := writeFile(t, dir, "invalid.json", `{"username":"ab","email":"alice@example.com","password":"correcthorse","age":30}`)
		var out bytes.Buffer

		err := run(context.Background(), []string{"errmatch", "resolve", "--config", configPath, "--schema", "signup", "--verbose", payload}, &out)
		gt.Error(t, err).Is(errPayloadInvalid)
		gt.String(t, out.String()).Contains("username must be at least 3 characters")
		gt.String(t, out.String()).Contains("string.min")
		gt.String(t, out.String()).Contains("index: 0 of 1")
	})

	t.Run("creates default config", func(t *testing.T) {
		_, err := os.Stat(configPath)
		gt.NoError(t, err)
	})

	t.Run("custom TOML map", func(t *testing.T) {
		tomlPath := writeFile(t, dir, "config.toml", `
[maps.terse]
fallback = "invalid request"

[maps.terse.messages]
"any.required" = "missing {{.Label}}"
`)
		payload := writeFile(t, dir, "missing.json", `{"email":"alice@example.com","password":"correcthorse","age":30}`)
		var out bytes.Buffer

		err := run(context.Background(), []string{"errmatch", "resolve", "--config", tomlPath, "--schema", "signup", "--map", "terse", payload}, &out)
		gt.Error(t, err).Is(errPayloadInvalid)
		gt.String(t, out.String()).Contains("missing username")
	})

	t.Run("unknown schema", func(t *testing.T) {
		payload := writeFile(t, dir, "any.json", `{}`)
		err := run(context.Background(), []string{"errmatch", "resolve", "--config", configPath, "--schema", "nope", payload}, &bytes.Buffer{})
		gt.Value(t, err).NotNil()
	})

	t.Run("missing payload argument", func(t *testing.T) {
		err := run(context.Background(), []string{"errmatch", "resolve", "--config", configPath, "--schema", "signup"}, &bytes.Buffer{})
		gt.Value(t, err).NotNil()
	})
}

func TestRun_Kinds(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"errmatch", "kinds", "--category", "symbol"}, &out)
	gt.NoError(t, err).Required()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	gt.Array(t, lines).Length(2)
	gt.String(t, lines[0]).Contains("symbol.base")

	err = run(context.Background(), []string{"errmatch", "kinds", "--category", "nope"}, &bytes.Buffer{})
	gt.Value(t, err).NotNil()
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := run(context.Background(), []string{"errmatch", "--log-level", "loud", "kinds"}, &bytes.Buffer{})
	gt.Value(t, err).NotNil()
}
