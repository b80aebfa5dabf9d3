package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Internal catalog keys for the help and version markers. They cannot clash
// with user flag names and never reach a Context.
const (
	helpKey    = "\x00help"
	versionKey = "\x00version"
)

// App is the root of a command tree plus the settings shared by every node:
// version, strictness, provider chain, global middleware and output.
type App struct {
	root       *Command
	version    string
	strict     bool
	providers  []Provider
	middleware []Middleware
	logger     *slog.Logger
	out        io.Writer
}

// NewApp creates an application whose root command is named name.
func NewApp(name string) *App {
	return &App{
		root:    NewCommand(name),
		version: "0.0.0",
		logger:  discardLogger(),
		out:     os.Stdout,
	}
}

func (a *App) WithVersion(v string) *App {
	a.version = v
	return a
}

func (a *App) WithDescription(desc string) *App {
	a.root.WithDescription(desc)
	return a
}

// WithStrict makes unknown flag-like tokens errors at every node.
func (a *App) WithStrict(strict bool) *App {
	a.strict = strict
	return a
}

// WithProviders replaces the provider chain consulted for flags the command
// line left out.
func (a *App) WithProviders(providers ...Provider) *App {
	a.providers = providers
	return a
}

// WithLogger sets the logger used for dispatch tracing and exposed through
// Context.Logger.
func (a *App) WithLogger(l *slog.Logger) *App {
	a.logger = l
	return a
}

// WithOutput redirects help, version and Context.Out output.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// Use appends global middleware.
func (a *App) Use(mws ...Middleware) *App {
	a.middleware = append(a.middleware, mws...)
	return a
}

// AddFlag registers flags on the root command.
func (a *App) AddFlag(flags ...*Flag) *App {
	a.root.AddFlag(flags...)
	return a
}

// AddCommand attaches subcommands to the root command.
func (a *App) AddCommand(cmds ...*Command) *App {
	a.root.AddCommand(cmds...)
	return a
}

// Action sets the root handler.
func (a *App) Action(h Handler) *App {
	a.root.Action(h)
	return a
}

func (a *App) Name() string    { return a.root.name }
func (a *App) Version() string { return a.version }
func (a *App) Strict() bool    { return a.strict }

// Root exposes the command tree for help, completion and man page
// generators.
func (a *App) Root() *Command { return a.root }

// Run dispatches args without shared state. args[0] is the program name and
// is skipped.
func (a *App) Run(args []string) error {
	return a.RunWithState(nil, args)
}

// RunWithState dispatches args, lending state to middleware and the handler
// for the duration of the call. Help and version requests print and return
// nil without running middleware.
func (a *App) RunWithState(state any, args []string) error {
	return a.dispatch(a.root, args, state)
}

// dispatch runs one node. args[0] names the node (or the program, at the
// root) and is not tokenized.
func (a *App) dispatch(node *Command, args []string, state any) error {
	if a.helpBeforeSubcommand(node, args) {
		a.logger.Debug("help requested", "command", node.FullName())
		return a.PrintHelp(node)
	}

	var tokens []string
	if len(args) > 0 {
		tokens = args[1:]
	}
	parser := &Parser{
		Flags:      a.scanCatalog(node),
		Strict:     a.strict,
		Providers:  a.providers,
		SkipChecks: true,
		StopAt:     func(tok string) bool { return node.findChild(tok) != nil },
	}
	parsed, err := parser.Parse(tokens)
	if err != nil {
		// Like help, a version request at the selected node wins over
		// tokenizing errors.
		if a.versionAtLeaf(node, args) {
			a.logger.Debug("version requested", "command", node.FullName(), "ignored", err)
			return a.PrintVersion()
		}
		return err
	}

	if parsed.Flags.Has(helpKey) {
		a.logger.Debug("help requested", "command", node.FullName())
		return a.PrintHelp(node)
	}
	if parsed.Rest != nil {
		child := node.findChild(parsed.Rest[0])
		a.logger.Debug("subcommand matched", "parent", node.FullName(), "child", child.name)
		return a.dispatch(child, parsed.Rest, state)
	}

	if parsed.Flags.Has(versionKey) {
		a.logger.Debug("version requested", "command", node.FullName())
		return a.PrintVersion()
	}
	if node.handler == nil {
		return a.PrintHelp(node)
	}

	delete(parsed.Flags, helpKey)
	delete(parsed.Flags, versionKey)
	if err := CheckFlags(node.flags, parsed.Flags); err != nil {
		return err
	}

	a.logger.Debug("dispatching", "command", node.FullName(), "convention", node.handler.Convention().String())
	ctx := &Context{
		flags:   parsed.Flags,
		args:    parsed.Positionals,
		state:   state,
		command: node,
		logger:  a.logger,
		out:     a.out,
	}
	mws := make([]Middleware, 0, len(a.middleware)+len(node.middleware))
	mws = append(mws, a.middleware...)
	mws = append(mws, node.middleware...)
	return pipeline(ctx, mws, node.handler)
}

// helpBeforeSubcommand reports whether a help marker precedes the first
// token naming a child of node (or appears with no such token).
func (a *App) helpBeforeSubcommand(node *Command, args []string) bool {
	helpIdx, subIdx := -1, -1
	for i := 1; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			break
		}
		if helpIdx < 0 && a.isHelpMarker(node, tok) {
			helpIdx = i
		}
		if subIdx < 0 && node.findChild(tok) != nil {
			subIdx = i
		}
	}
	return helpIdx >= 0 && (subIdx < 0 || helpIdx < subIdx)
}

// versionAtLeaf reports whether an unclaimed --version appears before any
// "--" while no token names a child of node.
func (a *App) versionAtLeaf(node *Command, args []string) bool {
	if node.claimsLong("version") {
		return false
	}
	found := false
	for i := 1; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			break
		}
		if node.findChild(tok) != nil {
			return false
		}
		if tok == "--version" {
			found = true
		}
	}
	return found
}

func (a *App) isHelpMarker(node *Command, tok string) bool {
	switch tok {
	case "--help":
		return !node.claimsLong("help")
	case "-h":
		return !node.claimsShort('h')
	}
	return false
}

// scanCatalog is the node's catalog plus the help and version markers it
// does not claim for itself.
func (a *App) scanCatalog(node *Command) []*Flag {
	flags := append([]*Flag(nil), node.flags...)
	if !node.claimsLong("help") {
		help := &Flag{name: helpKey, long: "help"}
		if !node.claimsShort('h') {
			help.short = 'h'
		}
		flags = append(flags, help)
	}
	if !node.claimsLong("version") {
		flags = append(flags, &Flag{name: versionKey, long: "version"})
	}
	return flags
}

// PrintHelp writes node's help to the application's output.
func (a *App) PrintHelp(node *Command) error {
	_, err := io.WriteString(a.out, RenderHelp(a, node))
	return err
}

// PrintVersion writes "<name> version <version>".
func (a *App) PrintVersion() error {
	_, err := fmt.Fprintf(a.out, "%s version %s\n", a.root.name, a.version)
	return err
}
