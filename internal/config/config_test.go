package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	t.Setenv("MAGICSH_STYLE", "")
	t.Setenv("MAGICSH_PROMPT", "")
	t.Setenv("MAGICSH_OUTPUT", "")
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("{}\n"), 0600))

	cfg, err := NewLoader().Load("", cfgFile)
	require.NoError(t, err)

	assert.Equal(t, "magic> ", cfg.Prompt)
	assert.Equal(t, "%%end", cfg.CellTerminator)
	assert.Equal(t, "auto", cfg.Style)
	assert.Equal(t, "text", cfg.Output)
	assert.False(t, cfg.TestMode)
	assert.False(t, cfg.Quiet)
}

func TestLoader_ConfigFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	content := "prompt: \"pm> \"\ncell-terminator: \"%%done\"\nstyle: plain\ntest-mode: true\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0600))

	cfg, err := NewLoader().Load("", cfgFile)
	require.NoError(t, err)

	assert.Equal(t, "pm> ", cfg.Prompt)
	assert.Equal(t, "%%done", cfg.CellTerminator)
	assert.Equal(t, "plain", cfg.Style)
	assert.True(t, cfg.TestMode)
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader().Load("", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoader_EnvironmentOverridesFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("prompt: \"file> \"\n"), 0600))
	t.Setenv("MAGICSH_PROMPT", "env> ")

	cfg, err := NewLoader().Load("", cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "env> ", cfg.Prompt)
}

func TestLoader_FlagsOverrideEnvironment(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("{}\n"), 0600))
	t.Setenv("MAGICSH_LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyLogLevel, "", "")
	fs.Bool(KeyTestMode, false, "")
	require.NoError(t, fs.Parse([]string{"--log-level", "debug"}))

	loader := NewLoader()
	require.NoError(t, loader.BindFlags(fs))
	cfg, err := loader.Load("", cfgFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.TestMode)
}

func TestLoader_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MAGICSH_HISTORY_FILE=/tmp/from-dotenv\n"), 0600))
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("{}\n"), 0600))
	t.Setenv("MAGICSH_HISTORY_FILE", "")
	require.NoError(t, os.Unsetenv("MAGICSH_HISTORY_FILE"))

	cfg, err := NewLoader().Load(dir, cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv", cfg.HistoryFile)
	require.NoError(t, os.Unsetenv("MAGICSH_HISTORY_FILE"))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{CellTerminator: "%%end", Style: "dark", Output: "text"}, ""},
		{"json output", Config{CellTerminator: "%%end", Style: "plain", Output: "json"}, ""},
		{"empty terminator", Config{CellTerminator: " ", Style: "dark", Output: "text"}, "cell-terminator"},
		{"unknown style", Config{CellTerminator: "%%end", Style: "neon", Output: "text"}, "style must be one of"},
		{"unknown output", Config{CellTerminator: "%%end", Style: "dark", Output: "xml"}, "output must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(t.TempDir()))
	assert.NoError(t, LoadDotEnv(""))
}
