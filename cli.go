package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/oszuidwest/zwfm-errmatch/errmatch"
	"github.com/oszuidwest/zwfm-errmatch/internal/config"
	"github.com/oszuidwest/zwfm-errmatch/internal/events"
	"github.com/oszuidwest/zwfm-errmatch/internal/schema"
	"github.com/oszuidwest/zwfm-errmatch/internal/server"
	"github.com/oszuidwest/zwfm-errmatch/internal/util"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// errPayloadInvalid is returned by the resolve command when the payload fails validation.
var errPayloadInvalid = errors.New("payload is invalid")

const shutdownTimeout = 30 * time.Second

// run builds the command tree and executes it. Command output goes to stdout.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	var logLevel, logFormat string

	app := &cli.Command{
		Name:    "errmatch",
		Usage:   "Validate payloads and resolve failures to a single message",
		Version: Version,
		Writer:  stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Value:       "info",
				Sources:     cli.EnvVars("ERRMATCH_LOG_LEVEL"),
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format (text, json)",
				Value:       "text",
				Sources:     cli.EnvVars("ERRMATCH_LOG_FORMAT"),
				Destination: &logFormat,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, configureLogger(os.Stderr, logLevel, logFormat)
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdResolve(stdout),
			cmdKinds(stdout),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if !errors.Is(err, errPayloadInvalid) {
			slog.Error("failed to run errmatch", "error", err)
		}
		return err
	}
	return nil
}

// configureLogger installs the default slog logger.
func configureLogger(w io.Writer, level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return goerr.Wrap(err, "invalid log level", goerr.V("level", level))
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return goerr.New("invalid log format", goerr.V("format", format))
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// configFlag is shared by commands that read the configuration file.
func configFlag(dst *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file (default: config.json next to binary)",
		Sources:     cli.EnvVars("ERRMATCH_CONFIG"),
		Destination: dst,
	}
}

// loadConfig loads the configuration from path, defaulting to config.json
// next to the binary.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		execPath, err := os.Executable()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get executable path")
		}
		path = filepath.Join(filepath.Dir(execPath), "config.json")
	}

	slog.Debug("using config file", "path", path)

	cfg := config.New(path)
	if err := cfg.Load(); err != nil {
		return nil, goerr.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

// openRecorder opens the audit log when one is configured. The returned
// close function is never nil.
func openRecorder(cfg *config.Config) (server.Recorder, func(), error) {
	snap := cfg.Snapshot()
	if !snap.HasAudit() {
		return nil, func() {}, nil
	}

	logger, err := events.NewLogger(snap.AuditPath)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := logger.Close(); err != nil {
			slog.Warn("failed to close audit log", "error", err)
		}
	}
	return logger, closeFn, nil
}

func cmdServe() *cli.Command {
	var configPath string
	var noVersionCheck bool

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP and WebSocket API",
		Flags: []cli.Flag{
			configFlag(&configPath),
			&cli.BoolFlag{
				Name:        "no-version-check",
				Usage:       "Disable periodic checks for new releases",
				Sources:     cli.EnvVars("ERRMATCH_NO_VERSION_CHECK"),
				Destination: &noVersionCheck,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			if cfg.APIKey() == "" {
				slog.Warn("server.api_key is empty: map changes and the audit API are disabled")
			}

			recorder, closeRecorder, err := openRecorder(cfg)
			if err != nil {
				return err
			}
			defer closeRecorder()

			srv := NewServer(cfg, schema.Builtin(), recorder)
			httpServer := srv.HTTPServer()

			ctx, stop := signal.NotifyContext(ctx, util.ShutdownSignals()...)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				slog.Info("starting web server", "addr", httpServer.Addr, "version", Version)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server error", goerr.V("addr", httpServer.Addr))
				}
				return nil
			})

			if !noVersionCheck {
				g.Go(func() error {
					srv.version.Run(ctx)
					return nil
				})
			}

			g.Go(func() error {
				<-ctx.Done()
				slog.Info("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "HTTP server shutdown error")
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}
			slog.Info("shutdown complete")
			return nil
		},
	}
}

func cmdResolve(stdout io.Writer) *cli.Command {
	var configPath, schemaName, mapName string
	var verbose bool

	return &cli.Command{
		Name:      "resolve",
		Usage:     "Validate a JSON document and print the resolved message",
		ArgsUsage: "<file.json|->",
		Flags: []cli.Flag{
			configFlag(&configPath),
			&cli.StringFlag{
				Name:        "schema",
				Aliases:     []string{"s"},
				Usage:       "Schema to validate against",
				Required:    true,
				Destination: &schemaName,
			},
			&cli.StringFlag{
				Name:        "map",
				Aliases:     []string{"m"},
				Usage:       "Error map to resolve with",
				Value:       config.DefaultMapName,
				Destination: &mapName,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Print kind, field and index of the resolved error",
				Destination: &verbose,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one payload file is required", goerr.V("args", c.Args().Len()))
			}

			raw, err := readPayload(c.Args().First())
			if err != nil {
				return err
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			recorder, closeRecorder, err := openRecorder(cfg)
			if err != nil {
				return err
			}
			defer closeRecorder()

			svc := server.NewService(cfg, schema.Builtin(), recorder)
			resolved, err := svc.Validate(events.SourceCLI, schemaName, mapName, raw)
			if err != nil {
				return err
			}

			if resolved == nil {
				fmt.Fprintf(stdout, "%s %s\n", color.GreenString("valid"), schemaName)
				return nil
			}

			fmt.Fprintf(stdout, "%s %s\n", color.RedString("invalid"), resolved.Message)
			if verbose {
				fmt.Fprintf(stdout, "  kind:  %s\n", color.YellowString(resolved.Kind))
				fmt.Fprintf(stdout, "  field: %s\n", cmp.Or(resolved.Field, "-"))
				fmt.Fprintf(stdout, "  index: %d of %d\n", resolved.Index, resolved.Count)
			}
			return errPayloadInvalid
		},
	}
}

// readPayload reads path, or stdin when path is "-".
func readPayload(path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read stdin")
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read payload", goerr.V("path", path))
	}
	return raw, nil
}

func cmdKinds(stdout io.Writer) *cli.Command {
	var category string

	return &cli.Command{
		Name:  "kinds",
		Usage: "List the recognized failure kinds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "category",
				Usage:       "Only list kinds of this category (e.g. string, number)",
				Destination: &category,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if category != "" && !slices.Contains(errmatch.Categories(), errmatch.Category(category)) {
				return goerr.New("unknown category", goerr.V("category", category))
			}

			for _, info := range server.KindInfos(errmatch.Category(category)) {
				fmt.Fprintf(stdout, "%s %s\n", color.CyanString("%-12s", info.Category), info.Kind)
			}
			return nil
		},
	}
}
