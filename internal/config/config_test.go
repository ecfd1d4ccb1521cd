package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/internal/config"
	"fixturegen/internal/report"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixturegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
mode: lenient
max_depth: 3
include_setters: true
fail_on_ambiguous_origin: false
`)

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Settings{
		Mode:                  report.Lenient,
		MaxDepth:              3,
		IncludeSetters:        true,
		FailOnAmbiguousOrigin: false,
	}, s)
}

func TestEnvironmentBeatsFile(t *testing.T) {
	path := writeConfig(t, "max_depth: 3\n")
	t.Setenv("FIXTUREGEN_MAX_DEPTH", "5")
	t.Setenv("FIXTUREGEN_MODE", "LENIENT")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.MaxDepth)
	assert.Equal(t, report.Lenient, s.Mode)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad mode", "mode: loose\n", "unknown mode"},
		{"bad depth", "max_depth: 0\n", "max_depth must be between 1 and 64"},
		{"deep", "max_depth: 65\n", "got 65"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
