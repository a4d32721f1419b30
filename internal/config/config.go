// Package config loads runtime configuration from defaults, an optional
// YAML file, FLASHCARDS_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/abhisek/flashcards/internal/grading"
	"github.com/abhisek/flashcards/internal/llm"
	"github.com/abhisek/flashcards/internal/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FLASHCARDS_"

// Grader backends.
const (
	GraderRemote = "remote"
	GraderLLM    = "llm"
)

// Config is the resolved runtime configuration.
type Config struct {
	API       APIConfig  `koanf:"api"`
	DB        string     `koanf:"db"`
	Ephemeral bool       `koanf:"ephemeral"`
	Grader    string     `koanf:"grader" validate:"oneof=remote llm"`
	LLM       llm.Config `koanf:"llm"`
	Log       LogConfig  `koanf:"log"`
}

// APIConfig locates the grading backend.
type APIConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
	File   string `koanf:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			URL:     grading.DefaultBaseURL,
			Timeout: 60 * time.Second,
		},
		Grader: GraderRemote,
		LLM:    llm.Config{Timeout: 30 * time.Second},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"api-url":      "api.url",
	"api-timeout":  "api.timeout",
	"db":           "db",
	"ephemeral":    "ephemeral",
	"grader":       "grader",
	"llm-provider": "llm.provider",
	"llm-model":    "llm.model",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-file":     "log.file",
}

// RegisterFlags adds the configuration flags to flags. Flag defaults match
// Default so an unset flag never masks a file or environment value.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("config", "", "path to a YAML config file")
	flags.String("api-url", d.API.URL, "grading backend base URL")
	flags.Duration("api-timeout", d.API.Timeout, "grading request timeout")
	flags.String("db", "", "database path (default $XDG_DATA_HOME/flashcards/flashcards.db)")
	flags.Bool("ephemeral", false, "keep everything in memory; nothing is written to disk")
	flags.String("grader", d.Grader, "grading backend: remote or llm")
	flags.String("llm-provider", "", "model provider for --grader=llm (gemini, openai, anthropic, openrouter)")
	flags.String("llm-model", "", "model name for --grader=llm")
	flags.String("log-level", d.Log.Level, "log level: debug, info, warn, error")
	flags.String("log-format", d.Log.Format, "log format: text or json")
	flags.String("log-file", "", "log file (default next to the database)")
}

// Load resolves the configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, explicit := configPath(flags)
	if path != "" && (explicit || exists(path)) {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, f.Value.String()
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps FLASHCARDS_API_URL to api.url.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

// configPath returns the YAML file to read and whether it was named
// explicitly (a missing explicit file is an error).
func configPath(flags *pflag.FlagSet) (string, bool) {
	if flags != nil {
		if p, err := flags.GetString("config"); err == nil && p != "" {
			return p, true
		}
	}
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p, true
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "flashcards", "config.yaml"), false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func (c *Config) resolvePaths() error {
	if c.DB == "" && !c.Ephemeral {
		p, err := store.DefaultDBPath()
		if err != nil {
			return err
		}
		c.DB = p
	}
	if c.Log.File == "" {
		if c.DB != "" {
			c.Log.File = filepath.Join(filepath.Dir(c.DB), "flashcards.log")
		} else {
			c.Log.File = filepath.Join(os.TempDir(), "flashcards.log")
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the LLM settings when the
// in-process grader is selected.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Grader == GraderLLM {
		lc, ok := c.LLM.Discover()
		if !ok {
			return errors.New("grader llm needs an API key: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY or llm.key")
		}
		if err := lc.Validate(); err != nil {
			return err
		}
		c.LLM = lc
	}
	return nil
}
