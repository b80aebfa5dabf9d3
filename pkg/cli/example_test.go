package cli_test

import (
	"fmt"
	"os"

	"github.com/rickgorman/clidispatch/pkg/cli"
)

func Example() {
	name := cli.NewTyped[string]("name", cli.Short('n'), cli.Default("World"))
	loud := cli.NewFlag("loud", cli.Short('l'))

	app := cli.NewApp("greet").
		WithOutput(os.Stdout).
		AddFlag(name.Flag, loud).
		Action(cli.Inject2(cli.FlagOf(name), cli.Optional(cli.FlagValue[bool]("loud")),
			func(name string, loud *bool) error {
				greeting := "Hello, " + name
				if loud != nil && *loud {
					greeting += "!"
				}
				fmt.Println(greeting)
				return nil
			}))

	_ = app.Run([]string{"greet", "-ln", "Ann"})
	_ = app.Run([]string{"greet"})
	// Output:
	// Hello, Ann!
	// Hello, World
}

func ExampleApp_Use() {
	trace := func(name string) cli.Middleware {
		return cli.Hooks{
			BeforeFunc: func(*cli.Context) error { fmt.Println(name, "before"); return nil },
			AfterFunc:  func(*cli.Context) error { fmt.Println(name, "after"); return nil },
		}
	}

	app := cli.NewApp("prog").
		Use(trace("M1"), trace("M2")).
		Action(cli.HandlerFunc(func(*cli.Context) error {
			fmt.Println("handler")
			return nil
		}))

	_ = app.Run([]string{"prog"})
	// Output:
	// M1 before
	// M2 before
	// handler
	// M2 after
	// M1 after
}
