// Package ui provides terminal output formatting for command-line programs
// built on pkg/cli.
//
// This package handles user-facing status output with consistent styling:
//   - Colored output (cyan, green, red, yellow)
//   - Info, success, failure, and warning messages
//   - Error reporting with a pointer to --help for usage errors
//   - Interactive yes/no prompts
//
// All output goes to ui.Out (defaults to os.Stderr) and prompts read from
// ui.In (defaults to os.Stdin) to allow testing and redirection.
//
// Example usage:
//
//	if err := app.Run(os.Args); err != nil {
//	    ui.ReportError("kv", err)
//	    os.Exit(cli.ExitCode(err))
//	}
//
//	if ui.AskYesNo("Delete all keys?", false) {
//	    ui.Success("Cleared")
//	}
//
// Output styling:
//   - Info:    → Cyan arrow
//   - Success: ✔ Green checkmark
//   - Fail:    ✘ Red X
//   - Warn:    ○ Yellow circle
package ui
