// Package config loads tapcard settings from a YAML file, environment
// variables and built-in defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix prefixes environment overrides, e.g. TAPCARD_DATABASE.
const EnvPrefix = "TAPCARD"

// Config holds all settings.
type Config struct {
	Database  string          `mapstructure:"database"`
	Prefs     string          `mapstructure:"prefs"`
	LogLevel  string          `mapstructure:"log_level"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
}

// BroadcastConfig selects how the active identifier is applied. An empty
// Command means identifiers are only logged.
type BroadcastConfig struct {
	Command []string      `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Dir returns the per-user directory holding the database, prefs and config.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".tapcard"
	}
	return filepath.Join(home, ".config", "tapcard")
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	dir := Dir()
	return Config{
		Database: filepath.Join(dir, "cards.db"),
		Prefs:    filepath.Join(dir, "prefs.yaml"),
		LogLevel: "warn",
		Broadcast: BroadcastConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// SearchPaths lists the directories searched for config.yaml, in order.
func SearchPaths() []string {
	return []string{".tapcard", Dir()}
}

// Load reads configuration. If file is non-empty it must exist; otherwise
// config.yaml is looked up in SearchPaths and a missing file is fine.
// It returns the file actually used ("" if none).
func Load(file string) (Config, string, error) {
	return load(file, SearchPaths())
}

func load(file string, searchPaths []string) (Config, string, error) {
	defaults := Defaults()

	v := viper.New()
	v.SetDefault("database", defaults.Database)
	v.SetDefault("prefs", defaults.Prefs)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("broadcast.timeout", defaults.Broadcast.Timeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default, so AutomaticEnv alone would never consult it.
	if err := v.BindEnv("broadcast.command"); err != nil {
		return Config{}, "", fmt.Errorf("bind env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToFieldsHook,
	))); err != nil {
		return Config{}, "", fmt.Errorf("decode config: %w", err)
	}
	cfg.Database = expandHome(cfg.Database)
	cfg.Prefs = expandHome(cfg.Prefs)

	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Validate checks the settings against the embedded CUE schema.
func (c Config) Validate() error {
	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.Unify(cctx.Encode(c.document()))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

// document is the form of c checked by the schema.
func (c Config) document() map[string]any {
	broadcast := map[string]any{
		"timeout": int64(c.Broadcast.Timeout),
	}
	if len(c.Broadcast.Command) > 0 {
		broadcast["command"] = c.Broadcast.Command
	}
	return map[string]any{
		"database":  c.Database,
		"prefs":     c.Prefs,
		"log_level": strings.ToLower(strings.TrimSpace(c.LogLevel)),
		"broadcast": broadcast,
	}
}

// stringToFieldsHook splits a string on whitespace where a []string is
// expected, e.g. TAPCARD_BROADCAST_COMMAND="nfc-setid --device 0".
func stringToFieldsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string(nil)) {
		return data, nil
	}
	return strings.Fields(reflect.ValueOf(data).String()), nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
