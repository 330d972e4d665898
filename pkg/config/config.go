// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

// Package config loads CLI defaults from a TOML file in the user's XDG
// config directory. A missing file yields the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file looked up under <xdg-config>/cflink/.
const FileName = "cflink.toml"

// Config holds connection defaults for the cflink CLI.
type Config struct {
	Port      string `toml:"port"`
	Baud      int    `toml:"baud"`
	URL       string `toml:"url"`
	Username  string `toml:"username"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Baud:      115200,
		TimeoutMS: 2000,
	}
}

// Timeout returns the configured command timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "cflink", FileName)
}

// Load reads the config file, layering it over the defaults. A missing file
// is not an error.
func Load() (Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
