// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/incense/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Round  RoundConfig  `toml:"round"`
	Layout LayoutConfig `toml:"layout"`
}

// RoundConfig maps round-related settings.
type RoundConfig struct {
	Sticks  *int     `toml:"sticks"`
	Correct *int     `toml:"correct"`
	Timer   *float64 `toml:"timer"`
	Initial *int     `toml:"initial"`
	Min     *int     `toml:"min"`
	Max     *int     `toml:"max"`
	Reward  *int     `toml:"reward"`
	Penalty *int     `toml:"penalty"`
	Angle   *float64 `toml:"angle"`
}

// LayoutConfig maps stick placement settings.
type LayoutConfig struct {
	HolderX      *float64 `toml:"holder-x"`
	HolderY      *float64 `toml:"holder-y"`
	Width        *float64 `toml:"width"`
	Height       *float64 `toml:"height"`
	HeightOffset *float64 `toml:"height-offset"`
}

// DefaultLayout returns the placement used when no layout is configured.
func DefaultLayout() model.Layout {
	return model.Layout{
		Holder:       model.Vec2{X: 0, Y: -100},
		Width:        200,
		Height:       50,
		HeightOffset: 180,
	}
}

// ApplyLayout overrides base with the values set in the file.
func (c LayoutConfig) ApplyLayout(base model.Layout) model.Layout {
	if c.HolderX != nil {
		base.Holder.X = *c.HolderX
	}
	if c.HolderY != nil {
		base.Holder.Y = *c.HolderY
	}
	if c.Width != nil {
		base.Width = *c.Width
	}
	if c.Height != nil {
		base.Height = *c.Height
	}
	if c.HeightOffset != nil {
		base.HeightOffset = *c.HeightOffset
	}
	return base
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
