package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/instantmarqo"
	"github.com/joho/godotenv"
)

// Environment variables read at startup.
const (
	EnvInstantAPIKey = "INSTANTAPI_KEY"
	EnvMarqoURL      = "MARQO_URL"
	EnvMarqoAPIKey   = "MARQO_API_KEY"
	EnvDB            = "INSTANTMARQO_DB"
	EnvLog           = "INSTANTMARQO_LOG"
)

// DefaultMarqoURL is the address of a local Marqo container.
const DefaultMarqoURL = "http://localhost:8882"

// Config holds settings taken from the environment.
type Config struct {
	InstantAPIKey string
	MarqoURL      string
	MarqoAPIKey   string
	DBPath        string

	// Log enables service call logging on stderr, same as --verbose.
	Log bool
}

// LoadDotEnv loads variables from path into the environment. Variables that
// are already set win and a missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ConfigFromEnv builds a Config using getenv, applying defaults.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		InstantAPIKey: getenv(EnvInstantAPIKey),
		MarqoURL:      getenv(EnvMarqoURL),
		MarqoAPIKey:   getenv(EnvMarqoAPIKey),
		DBPath:        getenv(EnvDB),
	}
	if cfg.MarqoURL == "" {
		cfg.MarqoURL = DefaultMarqoURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	switch getenv(EnvLog) {
	case "", "0", "false", "off":
	default:
		cfg.Log = true
	}
	return cfg
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "instantmarqo.db"
	}
	dir := filepath.Join(home, ".instantmarqo")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "instantmarqo.db")
}

// LoadResponseStructure reads a YAML or JSON response structure file.
func LoadResponseStructure(path string) (instantmarqo.ResponseStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, instantmarqo.Errorf(instantmarqo.ENOTFOUND, "schema file %q not found", path)
		}
		return nil, err
	}
	return instantmarqo.ParseResponseStructure(data)
}
