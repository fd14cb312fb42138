package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sld/layout"
	"sld/pathfinding"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.DefaultConfig(), cfg.LayoutConfig())
	assert.Equal(t, pathfinding.DefaultConfig(), cfg.RoutingConfig())
	assert.Equal(t, hclog.Info, cfg.LogLevel())
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
layout:
  gridSize: 10
  verticalSpacing: 80
routing:
  maxBends: 2
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Layout.GridSize)
	assert.Equal(t, 80, cfg.Layout.VerticalSpacing)
	assert.Equal(t, Default().Layout.HorizontalSpacing, cfg.Layout.HorizontalSpacing)
	assert.Equal(t, 2, cfg.Routing.MaxBends)
	assert.Equal(t, 10, cfg.RoutingConfig().GridSize)
	assert.Equal(t, hclog.Debug, cfg.LogLevel())
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero grid", "layout:\n  gridSize: 0\n"},
		{"negative clearance", "routing:\n  clearance: -5\n"},
		{"too many bends", "routing:\n  maxBends: 20\n"},
		{"unknown level", "log:\n  level: loud\n"},
		{"unknown key", "layout:\n  gridSzie: 20\n"},
		{"not yaml", "layout: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sld.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snap:\n  radius: 25\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Snap.Radius)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
