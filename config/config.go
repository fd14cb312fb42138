// Package config loads engine settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-hclog"

	"sld/layout"
	"sld/pathfinding"
)

// ErrInvalidConfig is returned when a config file cannot be decoded or fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full engine configuration. Zero sections in a file keep their defaults.
type Config struct {
	Layout  LayoutConfig  `yaml:"layout"`
	Routing RoutingConfig `yaml:"routing"`
	Snap    SnapConfig    `yaml:"snap"`
	Log     LogConfig     `yaml:"log"`
}

// LayoutConfig holds the layout spacing. GridSize is shared with the router.
type LayoutConfig struct {
	GridSize           int `yaml:"gridSize" validate:"gt=0"`
	VerticalSpacing    int `yaml:"verticalSpacing" validate:"gt=0"`
	HorizontalSpacing  int `yaml:"horizontalSpacing" validate:"gte=0"`
	TransformerSpacing int `yaml:"transformerSpacing" validate:"gt=0"`
	CouplerGap         int `yaml:"couplerGap" validate:"gte=0"`
	MaxCollisionPasses int `yaml:"maxCollisionPasses" validate:"gte=0,lte=1000"`
}

// RoutingConfig holds the router constants.
type RoutingConfig struct {
	MinBendLength int `yaml:"minBendLength" validate:"gt=0"`
	Clearance     int `yaml:"clearance" validate:"gte=0"`
	MaxBends      int `yaml:"maxBends" validate:"gte=1,lte=8"`
	BendPenalty   int `yaml:"bendPenalty" validate:"gte=0"`
}

// SnapConfig holds the interactive port snap settings.
type SnapConfig struct {
	Radius int `yaml:"radius" validate:"gt=0"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn error off"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	l := layout.DefaultConfig()
	r := pathfinding.DefaultConfig()
	return Config{
		Layout: LayoutConfig{
			GridSize:           l.GridSize,
			VerticalSpacing:    l.VerticalSpacing,
			HorizontalSpacing:  l.HorizontalSpacing,
			TransformerSpacing: l.TransformerSpacing,
			CouplerGap:         l.CouplerGap,
			MaxCollisionPasses: l.MaxCollisionPasses,
		},
		Routing: RoutingConfig{
			MinBendLength: r.MinBendLength,
			Clearance:     r.Clearance,
			MaxBends:      r.MaxBends,
			BendPenalty:   r.BendPenalty,
		},
		Snap: SnapConfig{Radius: 10},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads a config file. Keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML config on top of the defaults.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	v := validator.New()
	dec := yaml.NewDecoder(r, yaml.Validator(v), yaml.DisallowUnknownField())
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field constraint.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LayoutConfig converts to the layout engine settings.
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{
		GridSize:           c.Layout.GridSize,
		VerticalSpacing:    c.Layout.VerticalSpacing,
		HorizontalSpacing:  c.Layout.HorizontalSpacing,
		TransformerSpacing: c.Layout.TransformerSpacing,
		CouplerGap:         c.Layout.CouplerGap,
		MaxCollisionPasses: c.Layout.MaxCollisionPasses,
	}
}

// RoutingConfig converts to the router settings.
func (c Config) RoutingConfig() pathfinding.Config {
	return pathfinding.Config{
		GridSize:      c.Layout.GridSize,
		MinBendLength: c.Routing.MinBendLength,
		Clearance:     c.Routing.Clearance,
		MaxBends:      c.Routing.MaxBends,
		BendPenalty:   c.Routing.BendPenalty,
	}
}

// LogLevel returns the configured hclog level.
func (c Config) LogLevel() hclog.Level {
	return hclog.LevelFromString(c.Log.Level)
}
