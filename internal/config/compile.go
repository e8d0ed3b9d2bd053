package config

import (
	"log/slog"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
)

// templateData is the value message templates are executed against.
type templateData struct {
	Kind    string
	Label   string
	Key     string
	Message string
	Limit   any
	Value   any
	Context errmatch.Context
}

// Compile turns a map configuration into an errmatch.Map.
func Compile(name string, mc MapConfig) (errmatch.Map, error) {
	m := make(errmatch.Map, len(mc.Messages)+1)
	for kind, msg := range mc.Messages {
		e, err := compileEntry(name+"/"+kind, msg)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid message", goerr.V("map", name), goerr.V("kind", kind))
		}
		m[errmatch.Kind(kind)] = e
	}

	switch {
	case mc.FallbackLabel != nil:
		m[errmatch.Fallback] = errmatch.Computed(errmatch.InvalidLabel(*mc.FallbackLabel))
	case mc.Fallback != "":
		e, err := compileEntry(name+"/fallback", mc.Fallback)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid fallback", goerr.V("map", name))
		}
		m[errmatch.Fallback] = e
	}

	return m, nil
}

func mustCompile(name string, mc MapConfig) errmatch.Map {
	m, err := Compile(name, mc)
	if err != nil {
		panic(err)
	}
	return m
}

func compileEntry(name, msg string) (errmatch.Entry, error) {
	if !strings.Contains(msg, "{{") {
		return errmatch.Literal(msg), nil
	}

	tmpl, err := template.New(name).Option("missingkey=zero").Parse(msg)
	if err != nil {
		return errmatch.Entry{}, goerr.Wrap(err, "failed to parse message template")
	}

	return errmatch.Computed(func(item errmatch.ErrorItem) string {
		var b strings.Builder
		data := templateData{
			Kind:    string(item.Kind),
			Label:   item.Context.Label(),
			Key:     item.Context.Key(),
			Message: item.Message,
			Limit:   item.Context.Limit(),
			Value:   item.Context.Value(),
			Context: item.Context,
		}
		if err := tmpl.Execute(&b, data); err != nil {
			// An empty message falls through to the map's fallback.
			slog.Warn("message template failed", "template", name, "error", err)
			return ""
		}
		return b.String()
	}), nil
}
