package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHelp(t *testing.T) {
	app := NewApp("kv").
		WithDescription("A tiny key/value store").
		AddFlag(
			NewFlag("verbose", Short('v'), Help("Verbose output")),
			NewFlag("store", ValueName("FILE"), Env("KV_STORE"), Default("kv.db"), Help("Database path")),
			NewFlag("token", TakesValue(), Required(), Heading("Auth"), Help("API token")),
		).
		AddCommand(NewCommand("set").WithAliases("s").WithDescription("Set a key"))

	got := RenderHelp(app, app.Root())

	assert.True(t, strings.HasPrefix(got, "A tiny key/value store\n\nUsage: kv [OPTIONS] [COMMAND] [ARGS]...\n"), got)
	assert.Contains(t, got, "Commands:\n  set, s  Set a key\n")
	assert.Contains(t, got, "-v, --verbose")
	assert.Contains(t, got, "--store <FILE>")
	assert.Contains(t, got, "Database path [env: KV_STORE] [default: kv.db]")
	assert.Contains(t, got, "-h, --help")
	assert.Contains(t, got, "--version")
	assert.Contains(t, got, "Auth:\n")
	assert.Contains(t, got, "API token [required]")

	// Options precede custom headings.
	assert.Less(t, strings.Index(got, "Options:"), strings.Index(got, "Auth:"))
}

func TestRenderHelpSubcommand(t *testing.T) {
	set := NewCommand("set").WithDescription("Set a key").
		AddFlag(NewFlag("host", Short('h'), TakesValue()))
	app := NewApp("kv").AddCommand(set)

	got := RenderHelp(app, set)
	assert.Contains(t, got, "Usage: kv set [OPTIONS] [ARGS]...")
	assert.NotContains(t, got, "-h, --help")
	assert.Contains(t, got, "    --help")
}

func TestValueHint(t *testing.T) {
	assert.Equal(t, HintFilePath, NewFlag("in", ValueName("INPUT_FILE")).ValueHint())
	assert.Equal(t, HintDirPath, NewFlag("out", ValueName("OUT_DIR")).ValueHint())
	assert.Equal(t, HintNone, NewFlag("n", TakesValue()).ValueHint())
	assert.Equal(t, "N", NewFlag("n", TakesValue()).ValueName())
}

func TestWalk(t *testing.T) {
	app := NewApp("prog").AddCommand(
		NewCommand("a").AddCommand(NewCommand("a1")),
		NewCommand("b"),
	)
	var seen []string
	app.Root().Walk(func(c *Command) bool {
		seen = append(seen, c.FullName())
		return true
	})
	assert.Equal(t, []string{"prog", "prog a", "prog a a1", "prog b"}, seen)
	assert.Equal(t, "a", app.Root().Find("a").Name())
	assert.Nil(t, app.Root().Find("zz"))
}
