// Package cli parses command-line arguments and dispatches them to handlers.
//
// An application is a tree of commands, each with its own flag catalog:
//
//	verbose := cli.NewFlag("verbose", cli.Short('v'), cli.Help("Verbose output"))
//	name := cli.NewTyped[string]("name", cli.Short('n'), cli.Env("GREET_NAME"), cli.Default("World"))
//
//	app := cli.NewApp("greet").
//	    WithVersion("1.0.0").
//	    AddFlag(verbose, name.Flag).
//	    Action(cli.Inject2(cli.FlagOf(name), cli.Optional(cli.FlagValue[bool]("verbose")),
//	        func(name string, verbose *bool) error {
//	            fmt.Println("Hello,", name)
//	            return nil
//	        }))
//
//	if err := app.Run(os.Args); err != nil {
//	    os.Exit(cli.ExitCode(err))
//	}
//
// Dispatch proceeds node by node:
//   - A help marker (--help, or -h unless the node declares its own -h) that
//     precedes any token naming a child prints the node's help.
//   - The node's flags are tokenized; the first positional naming a child
//     hands the remaining tokens to that child.
//   - At the selected node --version prints the version, then required flags
//     and validators are enforced for that node only.
//   - Middleware before hooks, the handler and after hooks (reverse order)
//     run against a Context.
//
// Flag values absent from the command line are filled by providers:
// environment variable, then declared default, unless the chain is
// replaced with App.WithProviders (see DotEnvProvider and TOMLProvider).
//
// Failures are *Error values classified by Kind; errors.Is matches them
// against ErrUnknownFlag, ErrMissingArgument, ErrValidation and
// ErrFlagValueParse.
package cli
