// Package main provides errmatch, a validation service that reports exactly
// one error message per failed validation, chosen through configurable error maps.
//
// Usage:
//
//	errmatch serve [--config path/to/config.json]
//	errmatch resolve --schema signup [--map default] payload.json
//	errmatch kinds [--category string]
package main

import (
	"context"
	"os"
)

// Build information, set via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(context.Background(), os.Args, os.Stdout); err != nil {
		os.Exit(1)
	}
}
