// Package config holds the engine tunables. Values ship with compiled-in
// defaults; a TOML file can override any of them.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full set of engine tunables.
type Config struct {
	ZIndex   ZIndexConfig   `toml:"zindex"`
	Panel    PanelConfig    `toml:"panel"`
	Scroll   ScrollConfig   `toml:"scroll"`
	Viewport ViewportConfig `toml:"viewport"`
}

// ZIndexConfig controls node and panel stacking values.
type ZIndexConfig struct {
	Inactive   int `toml:"inactive"`
	Hover      int `toml:"hover"`
	ActiveBase int `toml:"active_base"`
	Demoted    int `toml:"demoted"`
}

// PanelConfig controls panel layout.
type PanelConfig struct {
	Width   float64 `toml:"width"`
	Gap     float64 `toml:"gap"`
	OffsetX float64 `toml:"offset_x"`
}

// ScrollConfig controls scroll arbitration timing.
type ScrollConfig struct {
	EdgeBufferMS int `toml:"edge_buffer_ms"`
	SampleHz     int `toml:"sample_hz"`
}

// ViewportConfig controls pan/zoom bounds.
type ViewportConfig struct {
	MinZoom  float64 `toml:"min_zoom"`
	MaxZoom  float64 `toml:"max_zoom"`
	ZoomStep float64 `toml:"zoom_step"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ZIndex: ZIndexConfig{
			Inactive:   10,
			Hover:      50,
			ActiveBase: 3000,
			Demoted:    100,
		},
		Panel: PanelConfig{
			Width:   320,
			Gap:     16,
			OffsetX: 24,
		},
		Scroll: ScrollConfig{
			EdgeBufferMS: 300,
			SampleHz:     60,
		},
		Viewport: ViewportConfig{
			MinZoom:  0.25,
			MaxZoom:  2.5,
			ZoomStep: 0.1,
		},
	}
}

// Load reads a TOML file over the defaults. A missing file returns the
// defaults without error; a malformed file or nonsensical values return an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ZIndex.ActiveBase <= c.ZIndex.Hover {
		return fmt.Errorf("zindex.active_base (%d) must exceed zindex.hover (%d)", c.ZIndex.ActiveBase, c.ZIndex.Hover)
	}
	if c.ZIndex.Demoted >= c.ZIndex.ActiveBase {
		return fmt.Errorf("zindex.demoted (%d) must stay below zindex.active_base (%d)", c.ZIndex.Demoted, c.ZIndex.ActiveBase)
	}
	if c.Scroll.EdgeBufferMS <= 0 {
		return fmt.Errorf("scroll.edge_buffer_ms must be positive, got %d", c.Scroll.EdgeBufferMS)
	}
	if c.Scroll.SampleHz <= 0 {
		return fmt.Errorf("scroll.sample_hz must be positive, got %d", c.Scroll.SampleHz)
	}
	if c.Viewport.MinZoom <= 0 || c.Viewport.MaxZoom <= c.Viewport.MinZoom {
		return fmt.Errorf("viewport zoom bounds invalid: min %.2f, max %.2f", c.Viewport.MinZoom, c.Viewport.MaxZoom)
	}
	return nil
}
