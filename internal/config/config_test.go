package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, used, err := load("", []string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
database: /var/lib/tapcard/cards.db
log_level: debug
broadcast:
  command: ["nfc-setid", "--device", "0"]
  timeout: 2s
`)

	cfg, used, err := load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "/var/lib/tapcard/cards.db", cfg.Database)
	assert.Equal(t, Defaults().Prefs, cfg.Prefs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"nfc-setid", "--device", "0"}, cfg.Broadcast.Command)
	assert.Equal(t, 2*time.Second, cfg.Broadcast.Timeout)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, _, err := load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_SearchOrder(t *testing.T) {
	first := filepath.Join(t.TempDir(), "project")
	second := filepath.Join(t.TempDir(), "user")
	writeConfig(t, second, "database: /user.db\n")
	want := writeConfig(t, first, "database: /project.db\n")

	cfg, used, err := load("", []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, want, used)
	assert.Equal(t, "/project.db", cfg.Database)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TAPCARD_DATABASE", "/env.db")
	t.Setenv("TAPCARD_LOG_LEVEL", "error")
	t.Setenv("TAPCARD_BROADCAST_TIMEOUT", "750ms")
	path := writeConfig(t, t.TempDir(), "database: /file.db\n")

	cfg, _, err := load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/env.db", cfg.Database)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 750*time.Millisecond, cfg.Broadcast.Timeout)
}

func TestLoad_EnvBroadcastCommand(t *testing.T) {
	t.Setenv("TAPCARD_BROADCAST_COMMAND", "nfc-setid  --device 0")

	cfg, _, err := load("", []string{t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, []string{"nfc-setid", "--device", "0"}, cfg.Broadcast.Command)
}

func TestLoad_EnvBroadcastCommandOverridesFile(t *testing.T) {
	t.Setenv("TAPCARD_BROADCAST_COMMAND", "setid")
	path := writeConfig(t, t.TempDir(), "broadcast:\n  command: [\"nfc-setid\", \"-v\"]\n")

	cfg, _, err := load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"setid"}, cfg.Broadcast.Command)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	path := writeConfig(t, t.TempDir(), "database: ~/cards/tap.db\n")

	cfg, _, err := load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cards", "tap.db"), cfg.Database)
}

func TestLoad_InvalidLevel(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log_level: chatty\n")
	_, _, err := load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "log_level")
}

func TestValidate(t *testing.T) {
	ok := Defaults()
	require.NoError(t, ok.Validate())

	cases := map[string]func(*Config){
		"empty database":   func(c *Config) { c.Database = " " },
		"empty prefs":      func(c *Config) { c.Prefs = "" },
		"bad level":        func(c *Config) { c.LogLevel = "loud" },
		"negative timeout": func(c *Config) { c.Broadcast.Timeout = -time.Second },
		"blank program":    func(c *Config) { c.Broadcast.Command = []string{" ", "x"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Defaults()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidate_AcceptsLevelCaseAndCommand(t *testing.T) {
	c := Defaults()
	c.LogLevel = "WARNING"
	c.Broadcast.Command = []string{"nfc-setid", "--device", "0"}
	c.Broadcast.Timeout = 0
	assert.NoError(t, c.Validate())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn,
		"warning": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("")
	assert.Error(t, err)
}
