package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgorman/clidispatch/internal/ui"
	"github.com/rickgorman/clidispatch/pkg/cli"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	ui.Out = io.Discard
	os.Exit(m.Run())
}

// harness runs kv commands against a database in a temp dir.
type harness struct {
	t         *testing.T
	db        string
	level     *slog.LevelVar
	providers []cli.Provider
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := filepath.Join(t.TempDir(), "kv.db")
	env := map[string]string{"KV_DB": db}
	return &harness{
		t:     t,
		db:    db,
		level: new(slog.LevelVar),
		providers: []cli.Provider{
			cli.EnvProvider{LookupEnv: func(k string) (string, bool) { v, ok := env[k]; return v, ok }},
			cli.DefaultProvider{},
		},
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	sess := &session{}
	defer sess.Close()

	out := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: h.level}))
	app := newApp(sess, out, logger, h.level, h.providers)
	err := app.RunWithState(sess, append([]string{"kv"}, args...))
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "kv %s", strings.Join(args, " "))
	return out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSetGet(t *testing.T) {
	h := newHarness(t)

	assert.Empty(t, h.mustRun("set", "greeting", "hello"))
	assert.Equal(t, "hello\n", h.mustRun("get", "greeting"))
	assert.Equal(t, "hello\n", h.mustRun("get", "  greeting "), "keys are trimmed")

	t.Run("missing key", func(t *testing.T) {
		_, err := h.run("get", "nope")
		assert.True(t, errors.Is(err, ErrKeyNotFound))
		assert.Equal(t, cli.ExitGeneralError, cli.ExitCode(err))
	})

	t.Run("fallback", func(t *testing.T) {
		assert.Equal(t, "dflt\n", h.mustRun("get", "nope", "--default", "dflt"))
		assert.Equal(t, "hello\n", h.mustRun("get", "-d", "dflt", "greeting"))
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := h.run("set", "only-key")
		assert.True(t, errors.Is(err, cli.ErrValidation))
		assert.Equal(t, cli.ExitUsageError, cli.ExitCode(err))

		_, err = h.run("get")
		assert.True(t, errors.Is(err, cli.ErrValidation))
	})

	t.Run("negative numbers are values", func(t *testing.T) {
		h.mustRun("set", "offset", "-42")
		assert.Equal(t, "-42\n", h.mustRun("get", "offset"))
	})
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set", "a", "1")
	h.mustRun("set", "b", "2")

	h.mustRun("rm", "a")
	_, err := h.run("get", "a")
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	_, err = h.run("del", "a")
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	h.mustRun("del", "-f", "a", "b")
	_, err = h.run("get", "b")
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	_, err = h.run("del")
	assert.True(t, errors.Is(err, cli.ErrValidation))
}

func TestList(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set", "app.name", "kv")
	h.mustRun("set", "app.port", "8080")
	h.mustRun("set", "db.host", "localhost")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "all", args: []string{"list"}, want: "app.name=kv\napp.port=8080\ndb.host=localhost\n"},
		{name: "alias and prefix", args: []string{"ls", "-p", "app."}, want: "app.name=kv\napp.port=8080\n"},
		{name: "keys only with cluster", args: []string{"ls", "-kp", "db"}, want: "db.host\n"},
		{name: "limit", args: []string{"list", "--limit=1", "-k"}, want: "app.name\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.mustRun(tt.args...))
		})
	}

	t.Run("negative limit rejected", func(t *testing.T) {
		_, err := h.run("list", "--limit", "-1")
		assert.True(t, errors.Is(err, cli.ErrValidation))
	})
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set", "a", "x")
	h.mustRun("set", "b", "y")

	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: "{\n  \"a\": \"x\",\n  \"b\": \"y\"\n}\n"},
		{format: "toml", want: "a = \"x\"\nb = \"y\"\n"},
		{format: "env", want: "a=\"x\"\nb=\"y\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, h.mustRun("export", "--format", tt.format))
		})
	}

	t.Run("default is json", func(t *testing.T) {
		assert.Equal(t, tests[0].want, h.mustRun("export"))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := h.run("export", "-f", "xml")
		assert.True(t, errors.Is(err, cli.ErrValidation))
	})
}

func TestImport(t *testing.T) {
	envFile := writeFile(t, "vars.env", "USER=ann\nSHELL=zsh\n")
	tomlFile := writeFile(t, "settings.toml", "[db]\nhost = \"localhost\"\nport = 5432\n")
	jsonFile := writeFile(t, "extra.json", `{"feature": {"enabled": true}}`)

	t.Run("dry run writes nothing", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, "would import 2 key(s)\n", h.mustRun("import", "-n", envFile))
		assert.Empty(t, h.mustRun("list"))
	})

	t.Run("all formats", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, "imported 5 key(s)\n", h.mustRun("import", envFile, tomlFile, jsonFile))
		assert.Equal(t,
			"SHELL=zsh\nUSER=ann\ndb.host=localhost\ndb.port=5432\nfeature.enabled=true\n",
			h.mustRun("list"))
	})

	t.Run("prefix", func(t *testing.T) {
		h := newHarness(t)
		h.mustRun("import", "--prefix", "env.", envFile)
		assert.Equal(t, "env.SHELL\nenv.USER\n", h.mustRun("list", "-k"))
	})

	t.Run("missing file", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("import", filepath.Join(t.TempDir(), "absent.env"))
		require.Error(t, err)
		assert.Equal(t, cli.ExitGeneralError, cli.ExitCode(err))
	})
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set", "a", "1")

	out := h.mustRun("stats")
	assert.Contains(t, out, "db: "+h.db+"\n")
	assert.Contains(t, out, "keys: 1\n")
	assert.Regexp(t, `request: [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\n`, out)
}

func TestClear(t *testing.T) {
	h := newHarness(t)
	orig := ui.In
	t.Cleanup(func() { ui.In = orig })

	h.mustRun("set", "a", "1")

	ui.In = strings.NewReader("n\n")
	h.mustRun("clear")
	assert.Equal(t, "a=1\n", h.mustRun("list"))

	ui.In = strings.NewReader("y\n")
	h.mustRun("clear")
	assert.Empty(t, h.mustRun("list"))

	h.mustRun("set", "b", "2")
	ui.In = strings.NewReader("")
	h.mustRun("clear", "--yes")
	assert.Empty(t, h.mustRun("list"))
}

func TestHelpAndVersion(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun()
	assert.Contains(t, out, "Usage: kv [OPTIONS] [COMMAND] [ARGS]...")
	assert.Contains(t, out, "del, rm")

	out = h.mustRun("set", "--help")
	assert.Contains(t, out, "Store a value under a key")
	assert.Contains(t, out, "--db <FILE>")

	out = h.mustRun("config")
	assert.Contains(t, out, "Inspect configuration")
	assert.Contains(t, out, "show")

	assert.Equal(t, "kv version 0.1.0\n", h.mustRun("--version"))
	assert.Equal(t, "kv version 0.1.0\n", h.mustRun("get", "--version"))
}

func TestStrictUnknownFlag(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("list", "--prefx", "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrUnknownFlag))
	assert.Contains(t, err.Error(), "did you mean '--prefix'?")
	assert.Equal(t, cli.ExitUsageError, cli.ExitCode(err))

	_, err = h.run("set", "-x", "a", "b")
	assert.True(t, errors.Is(err, cli.ErrUnknownFlag))
}

func TestVerboseRaisesLogLevel(t *testing.T) {
	h := newHarness(t)
	h.level.Set(slog.LevelWarn)

	h.mustRun("set", "a", "1")
	assert.Equal(t, slog.LevelWarn, h.level.Level())

	h.mustRun("get", "-v", "a")
	assert.Equal(t, slog.LevelDebug, h.level.Level())
}

func TestConfigProviders(t *testing.T) {
	dir := t.TempDir()
	tomlFile := writeFile(t, "config.toml", "db = \"from-toml.db\"\n")
	dotenvFile := filepath.Join(dir, ".env")

	// Start from an environment without KV_DB.
	t.Setenv("KV_DB", "")
	os.Unsetenv("KV_DB")

	show := func(args ...string) string {
		t.Helper()
		providers, err := loadProviders(tomlFile, dotenvFile)
		require.NoError(t, err)
		h := newHarness(t)
		h.providers = providers
		return h.mustRun(append([]string{"config", "show"}, args...)...)
	}

	assert.Equal(t, "db = from-toml.db\n", show())

	require.NoError(t, os.WriteFile(dotenvFile, []byte("KV_DB=from-dotenv.db\n"), 0644))
	assert.Equal(t, "db = from-dotenv.db\n", show())

	t.Setenv("KV_DB", "from-env.db")
	assert.Equal(t, "db = from-env.db\n", show())

	assert.Equal(t, "db = from-cli.db\n", show("--db", "from-cli.db"))

	t.Run("defaults when nothing is configured", func(t *testing.T) {
		t.Setenv("KV_DB", "")
		os.Unsetenv("KV_DB")
		providers, err := loadProviders(filepath.Join(dir, "absent.toml"), filepath.Join(dir, "absent.env"))
		require.NoError(t, err)
		h := newHarness(t)
		h.providers = providers
		assert.Equal(t, "db = kv.db\n", h.mustRun("config", "show"))
	})
}

func TestConfigPath(t *testing.T) {
	t.Setenv("KV_CONFIG", "/etc/kv.toml")
	assert.Equal(t, "/etc/kv.toml", configPath())

	t.Setenv("KV_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "kv", "config.toml"), configPath())
}

func TestRun(t *testing.T) {
	t.Setenv("KV_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	t.Setenv("KV_DB", filepath.Join(t.TempDir(), "kv.db"))

	out := &bytes.Buffer{}
	assert.Equal(t, cli.ExitSuccess, run([]string{"kv", "config", "path"}, out))
	assert.Equal(t, os.Getenv("KV_CONFIG")+"\n", out.String())

	assert.Equal(t, cli.ExitUsageError, run([]string{"kv", "--bogus"}, io.Discard))
	assert.Equal(t, cli.ExitGeneralError, run([]string{"kv", "get", "missing"}, io.Discard))
}
