package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rickgorman/clidispatch/pkg/cli"
)

// requestID tags the log records of one invocation.
type requestID string

// session is the state shared by every command of one run.
type session struct {
	store *Store
}

// open returns the store at path, opening it on first use.
func (s *session) open(path string) (*Store, error) {
	if s.store != nil && s.store.Path() == path {
		return s.store, nil
	}
	if s.store != nil {
		prev := s.store.Path()
		if err := s.Close(); err != nil {
			return nil, fmt.Errorf("failed to close %s: %w", prev, err)
		}
	}
	st, err := OpenStore(path)
	if err != nil {
		return nil, err
	}
	s.store = st
	return st, nil
}

// Close releases the store if one was opened.
func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// tracing raises the log level for --verbose, tags the run with a request id
// and logs how long the command took.
type tracing struct {
	level   *slog.LevelVar
	id      requestID
	started time.Time
}

func (t *tracing) Before(ctx *cli.Context) error {
	if ctx.IsPresent("verbose") {
		t.level.Set(slog.LevelDebug)
	}
	t.id = requestID(uuid.NewString())
	t.started = time.Now()
	cli.SetExtension(ctx, t.id)

	ctx.Logger().Debug("command started",
		"command", ctx.Command().FullName(),
		"request_id", string(t.id),
		"args", len(ctx.Args()))
	return nil
}

func (t *tracing) After(ctx *cli.Context) error {
	ctx.Logger().Debug("command finished",
		"command", ctx.Command().FullName(),
		"request_id", string(t.id),
		"elapsed", time.Since(t.started))
	return nil
}

// openStore opens the database named by --db and hands it to the handler.
func openStore(s *session) cli.Middleware {
	return cli.Hooks{
		BeforeFunc: func(ctx *cli.Context) error {
			path, ok := ctx.ValueOf("db")
			if !ok || path == "" {
				return cli.Validationf("no database path: set --db or KV_DB")
			}
			st, err := s.open(path)
			if err != nil {
				return cli.Wrap(err)
			}
			cli.SetExtension(ctx, st)
			ctx.Logger().Debug("store opened", "path", path)
			return nil
		},
	}
}

// trimKeys strips surrounding whitespace from positional keys before the
// handler sees them.
func trimKeys() cli.Middleware {
	return cli.Hooks{
		BeforeFunc: func(ctx *cli.Context) error {
			args := ctx.Args()
			trimmed := make([]string, 0, len(args))
			for _, a := range args {
				trimmed = append(trimmed, strings.TrimSpace(a))
			}
			ctx.SetArgs(trimmed)
			return nil
		},
	}
}
