// Package config loads ttf2meshctl's TOML configuration file: default
// quality, mesher features, and worker-pool sizing (spec §5).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk shape of ttf2meshctl.toml.
type Config struct {
	LogLevel string `toml:"log_level"`

	Mesh struct {
		Quality              uint8 `toml:"quality"`
		IgnoreMesherWarnings bool  `toml:"ignore_mesher_warnings"`
		Depth3D              float32 `toml:"depth_3d"`
	} `toml:"mesh"`

	Workers struct {
		Count int `toml:"count"`
	} `toml:"workers"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	var c Config
	c.LogLevel = "info"
	c.Mesh.Quality = 20
	c.Mesh.Depth3D = 0.25
	c.Workers.Count = 4
	return c
}

// Load reads and decodes a TOML file at path, starting from Default() so
// any field the file omits keeps its default.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
