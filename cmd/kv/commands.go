package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/rickgorman/clidispatch/internal/ui"
	"github.com/rickgorman/clidispatch/pkg/cli"
)

// Flags shared by every command that touches the store.
var (
	dbFlag = cli.NewFlag("db",
		cli.ValueName("FILE"),
		cli.Env("KV_DB"),
		cli.Default("kv.db"),
		cli.Help("Database file"))
	verboseFlag = cli.NewFlag("verbose",
		cli.Short('v'),
		cli.Help("Log debug output to stderr"))
)

var exportFormats = []string{"json", "toml", "env"}

func newApp(sess *session, out io.Writer, logger *slog.Logger, level *slog.LevelVar, providers []cli.Provider) *cli.App {
	return cli.NewApp("kv").
		WithVersion(version).
		WithDescription("A small key/value store backed by SQLite").
		WithStrict(true).
		WithProviders(providers...).
		WithLogger(logger).
		WithOutput(out).
		Use(&tracing{level: level}).
		AddCommand(
			setCommand(sess),
			getCommand(sess, out),
			deleteCommand(sess),
			listCommand(sess),
			clearCommand(sess),
			exportCommand(sess, out),
			importCommand(sess, out),
			statsCommand(sess, out),
			configCommand(out),
		)
}

func setCommand(sess *session) *cli.Command {
	return cli.NewCommand("set").
		WithDescription("Store a value under a key").
		AddFlag(dbFlag, verboseFlag).
		Use(openStore(sess)).
		Action(cli.WithApp(sess, func(s *session, ctx *cli.Context) error {
			args := ctx.Args()
			if len(args) != 2 {
				return cli.Validationf("set takes KEY and VALUE, got %d argument(s)", len(args))
			}
			if args[0] == "" {
				return cli.Validationf("key must not be empty")
			}
			return cli.Wrap(s.store.Set(args[0], args[1]))
		}))
}

func getCommand(sess *session, out io.Writer) *cli.Command {
	return cli.NewCommand("get").
		WithDescription("Print the value stored under a key").
		AddFlag(dbFlag, verboseFlag,
			cli.NewFlag("default", cli.Short('d'), cli.ValueName("VALUE"), cli.Help("Printed when the key is missing"))).
		Use(openStore(sess), trimKeys()).
		Action(cli.Inject3(cli.Args(), cli.Extension[*Store](), cli.Optional(cli.FlagValue[string]("default")),
			func(args []string, st *Store, fallback *string) error {
				if len(args) != 1 {
					return cli.Validationf("get takes exactly one KEY")
				}
				v, err := st.Get(args[0])
				if errors.Is(err, ErrKeyNotFound) && fallback != nil {
					v, err = *fallback, nil
				}
				if err != nil {
					return cli.Wrap(err)
				}
				_, err = fmt.Fprintln(out, v)
				return err
			}))
}

func deleteCommand(sess *session) *cli.Command {
	return cli.NewCommand("del").
		WithAliases("rm").
		WithDescription("Remove keys").
		AddFlag(dbFlag, verboseFlag,
			cli.NewFlag("force", cli.Short('f'), cli.Help("Ignore missing keys"))).
		Use(openStore(sess), trimKeys()).
		Action(cli.WithAppContext(sess, func(ctx *cli.AppContext[*session]) error {
			keys := ctx.Args()
			if len(keys) == 0 {
				return cli.Validationf("del takes at least one KEY")
			}
			force := ctx.IsPresent("force")
			for _, k := range keys {
				err := ctx.App.store.Delete(k)
				if errors.Is(err, ErrKeyNotFound) && force {
					continue
				}
				if err != nil {
					return cli.Wrap(err)
				}
			}
			return nil
		}))
}

func nonNegative(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%q is not a number", v)
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func listCommand(sess *session) *cli.Command {
	prefix := cli.NewTyped[string]("prefix", cli.Short('p'), cli.Help("Only keys starting with PREFIX"))
	limit := cli.NewTyped[int]("limit", cli.Short('n'), cli.Default("0"), cli.Validate(nonNegative),
		cli.Help("Maximum number of keys, 0 for all"))
	keysOnly := cli.NewTyped[bool]("keys", cli.Short('k'), cli.Help("Print keys without values"))

	return cli.NewCommand("list").
		WithAliases("ls").
		WithDescription("List stored keys").
		AddFlag(dbFlag, verboseFlag, prefix.Flag, limit.Flag, keysOnly.Flag).
		Use(openStore(sess)).
		Action(cli.HandlerFunc(func(ctx *cli.Context) error {
			st, ok := cli.GetExtension[*Store](ctx)
			if !ok {
				return cli.Validationf("store not opened")
			}
			p, _ := prefix.Get(ctx)
			n, err := limit.Value(ctx)
			if err != nil {
				return err
			}
			entries, err := st.List(p, n)
			if err != nil {
				return cli.Wrap(err)
			}
			bare, _ := keysOnly.Get(ctx)
			for _, e := range entries {
				if bare {
					fmt.Fprintln(ctx.Out(), e.Key)
					continue
				}
				fmt.Fprintf(ctx.Out(), "%s=%s\n", e.Key, e.Value)
			}
			return nil
		}))
}

func clearCommand(sess *session) *cli.Command {
	return cli.NewCommand("clear").
		WithDescription("Remove every key").
		AddFlag(dbFlag, verboseFlag,
			cli.NewFlag("yes", cli.Short('y'), cli.Help("Do not ask for confirmation"))).
		Use(openStore(sess)).
		Action(cli.HandlerFunc(func(ctx *cli.Context) error {
			st, _ := cli.GetExtension[*Store](ctx)
			if !ctx.IsPresent("yes") && !ui.AskYesNo(fmt.Sprintf("Delete all keys in %s?", st.Path()), false) {
				ui.Warn("Aborted")
				return nil
			}
			n, err := st.Clear()
			if err != nil {
				return cli.Wrap(err)
			}
			ui.Success("Removed %d key(s)", n)
			return nil
		}))
}

func exportCommand(sess *session, out io.Writer) *cli.Command {
	format := cli.NewTyped[string]("format",
		cli.Short('f'),
		cli.Default("json"),
		cli.Help("Output format: json, toml or env"),
		cli.Validate(func(v string) error {
			for _, f := range exportFormats {
				if v == f {
					return nil
				}
			}
			return fmt.Errorf("unsupported format %q", v)
		}))

	return cli.NewCommand("export").
		WithDescription("Write every key to stdout").
		AddFlag(dbFlag, verboseFlag, format.Flag).
		Use(openStore(sess)).
		Action(cli.Inject2(cli.Extension[*Store](), cli.FlagOf(format),
			func(st *Store, format string) error {
				entries, err := st.List("", 0)
				if err != nil {
					return cli.Wrap(err)
				}
				values := make(map[string]string, len(entries))
				for _, e := range entries {
					values[e.Key] = e.Value
				}
				return cli.Wrap(writeEntries(out, format, values))
			}))
}

func writeEntries(w io.Writer, format string, values map[string]string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(values)
	case "env":
		s, err := godotenv.Marshal(values)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}
}

func importCommand(sess *session, out io.Writer) *cli.Command {
	return cli.NewCommand("import").
		WithDescription("Load keys from .env, .toml or .json files").
		AddFlag(dbFlag, verboseFlag,
			cli.NewFlag("prefix", cli.Short('p'), cli.TakesValue(), cli.Help("Prepended to every imported key")),
			cli.NewFlag("dry-run", cli.Short('n'), cli.Help("Report without writing"))).
		Use(openStore(sess)).
		Action(cli.Inject4(cli.Args(), cli.Extension[*Store](),
			cli.Optional(cli.FlagValue[string]("prefix")), cli.Optional(cli.FlagValue[bool]("dry-run")),
			func(files []string, st *Store, prefix *string, dryRun *bool) error {
				if len(files) == 0 {
					return cli.Validationf("import takes at least one FILE")
				}
				count := 0
				for _, file := range files {
					values, err := readEntries(file)
					if err != nil {
						return cli.Wrap(err)
					}
					for k, v := range values {
						if prefix != nil {
							k = *prefix + k
						}
						if dryRun == nil {
							if err := st.Set(k, v); err != nil {
								return cli.Wrap(err)
							}
						}
						count++
					}
				}
				verb := "imported"
				if dryRun != nil {
					verb = "would import"
				}
				_, err := fmt.Fprintf(out, "%s %d key(s)\n", verb, count)
				return err
			}))
}

func statsCommand(sess *session, out io.Writer) *cli.Command {
	return cli.NewCommand("stats").
		WithDescription("Show store statistics").
		AddFlag(dbFlag, verboseFlag).
		Use(openStore(sess)).
		Action(cli.Inject2(cli.State[*session](), cli.Extension[requestID](),
			func(s *session, id requestID) error {
				n, err := s.store.Count()
				if err != nil {
					return cli.Wrap(err)
				}
				_, err = fmt.Fprintf(out, "db: %s\nkeys: %d\nrequest: %s\n", s.store.Path(), n, id)
				return err
			}))
}

func configCommand(out io.Writer) *cli.Command {
	return cli.NewCommand("config").
		WithDescription("Inspect configuration").
		AddCommand(
			cli.NewCommand("path").
				WithDescription("Print the config file location").
				Action(cli.Inject0(func() error {
					_, err := fmt.Fprintln(out, configPath())
					return err
				})),
			cli.NewCommand("show").
				WithDescription("Print resolved settings").
				AddFlag(dbFlag).
				Action(cli.HandlerFunc(func(ctx *cli.Context) error {
					db, _ := ctx.ValueOf("db")
					_, err := fmt.Fprintf(ctx.Out(), "db = %s\n", db)
					return err
				})),
		)
}
