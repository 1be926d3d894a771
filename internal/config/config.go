// Package config loads magicsh settings from flags, MAGICSH_ environment
// variables, .env files and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by magicsh.
const EnvPrefix = "MAGICSH"

// Configuration keys.
const (
	KeyLogLevel       = "log-level"
	KeyLogFile        = "log-file"
	KeyTestMode       = "test-mode"
	KeyPrompt         = "prompt"
	KeyHistoryFile    = "history-file"
	KeyCellTerminator = "cell-terminator"
	KeyStyle          = "style"
	KeyOutput         = "output"
	KeyQuiet          = "quiet"
)

// Styles accepted by the style key.
var Styles = []string{"auto", "dark", "light", "plain"}

// Output formats accepted by the output key.
var Outputs = []string{"text", "json"}

// Config holds the resolved settings.
type Config struct {
	LogLevel       string `mapstructure:"log-level"`
	LogFile        string `mapstructure:"log-file"`
	TestMode       bool   `mapstructure:"test-mode"`
	Prompt         string `mapstructure:"prompt"`
	HistoryFile    string `mapstructure:"history-file"`
	CellTerminator string `mapstructure:"cell-terminator"`
	Style          string `mapstructure:"style"`
	Output         string `mapstructure:"output"`
	Quiet          bool   `mapstructure:"quiet"`
}

// Loader wraps a viper instance configured for magicsh.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults and environment binding set up.
func NewLoader() *Loader {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTestMode, false)
	v.SetDefault(KeyPrompt, "magic> ")
	v.SetDefault(KeyHistoryFile, defaultHistoryFile())
	v.SetDefault(KeyCellTerminator, "%%end")
	v.SetDefault(KeyStyle, "auto")
	v.SetDefault(KeyOutput, "text")
	v.SetDefault(KeyQuiet, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlags lets command-line flags override every other source.
// Flags not present in fs are skipped.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for _, key := range []string{KeyLogLevel, KeyLogFile, KeyTestMode, KeyPrompt, KeyHistoryFile, KeyCellTerminator, KeyStyle, KeyOutput, KeyQuiet} {
		flag := fs.Lookup(key)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %s: %w", key, err)
		}
	}
	return nil
}

// Set overrides a key.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// Load reads the .env file in dir, then the config file, and returns the
// merged configuration. An empty configFile searches the user config
// directory; a missing file there is not an error.
func (l *Loader) Load(dir, configFile string) (*Config, error) {
	if err := LoadDotEnv(dir); err != nil {
		return nil, err
	}

	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		if configDir, err := os.UserConfigDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(configDir, "magicsh"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have a restricted domain.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CellTerminator) == "" {
		return fmt.Errorf("%s must not be empty", KeyCellTerminator)
	}
	if !slices.Contains(Styles, c.Style) {
		return fmt.Errorf("%s must be one of %s, got %q", KeyStyle, strings.Join(Styles, ", "), c.Style)
	}
	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("%s must be one of %s, got %q", KeyOutput, strings.Join(Outputs, ", "), c.Output)
	}
	return nil
}

// LoadDotEnv loads dir/.env into the process environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(dir string) error {
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".magicsh_history")
}
