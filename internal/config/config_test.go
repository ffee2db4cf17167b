package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bioindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, `
nodes_file: data/nodes.json
technologies_file: /srv/data/technologies.yaml
database: catalog.db
log_level: debug
default_limit: 25
`)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "nodes.json"), cfg.NodesFile)
	assert.Equal(t, "/srv/data/technologies.yaml", cfg.TechnologiesFile)
	assert.Equal(t, filepath.Join(dir, "catalog.db"), cfg.Database)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 25, cfg.DefaultLimit)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read config")
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("database: index.db\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "index.db", cfg.Database)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty document", "", ""},
		{"valid", "log_level: warn\ndefault_limit: 10\n", ""},
		{"unknown key", "nodes: x.json\n", "field nodes not found"},
		{"negative limit", "default_limit: -1\n", "default_limit must be >= 0"},
		{"bad level", "log_level: loud\n", "invalid log level"},
		{"malformed", "database: [\n", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/data/nodes.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "nodes.json"), got)

	got, err = ExpandPath("relative/path")
	require.NoError(t, err)
	assert.Equal(t, "relative/path", got)
}
