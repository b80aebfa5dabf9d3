// Command kv is a small key/value store on top of pkg/cli.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/rickgorman/clidispatch/internal/ui"
	"github.com/rickgorman/clidispatch/pkg/cli"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

func run(args []string, out io.Writer) int {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	providers, err := loadProviders(configPath(), ".env")
	if err != nil {
		ui.Fail("Error loading configuration: %v", err)
		return cli.ExitGeneralError
	}

	sess := &session{}
	defer sess.Close()

	app := newApp(sess, out, logger, level, providers)
	if err := app.RunWithState(sess, args); err != nil {
		ui.ReportError(app.Name(), err)
		return cli.ExitCode(err)
	}
	return cli.ExitSuccess
}
