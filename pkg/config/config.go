// Package config loads the procflow configuration file.
//
// Configuration lives at ~/.config/procflow/config.toml (or
// $XDG_CONFIG_HOME/procflow/config.toml, or the path in $PROCFLOW_CONFIG).
// Every field has a working default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appName is the directory name used under the config home.
const appName = "procflow"

// Config holds all tool settings.
type Config struct {
	// Store selects the backend for `procflow store`: "file", "redis",
	// or "mongo".
	Store string `toml:"store"`

	Serve ServeConfig `toml:"serve"`
	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// ServeConfig configures the live preview server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// RedisConfig configures the redis-backed process store.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo-backed process store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store: "file",
		Serve: ServeConfig{Addr: "127.0.0.1:8321"},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "procflow",
			Collection: "processes",
		},
	}
}

// Load reads the configuration file, applying defaults for anything unset.
// A missing file yields the defaults; a file that exists but fails to parse
// is an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the configuration file path: $PROCFLOW_CONFIG if set,
// otherwise the XDG config home.
func Path() (string, error) {
	if p := os.Getenv("PROCFLOW_CONFIG"); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
