// Package config loads the server configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	defaults "github.com/camilodvr/censopueblos/config"
	"github.com/camilodvr/censopueblos/pkg/validation"
)

// Server configures the HTTP query API.
type Server struct {
	Addr                  string `yaml:"addr"`
	DatasetPath           string `yaml:"dataset_path" validate:"required,dataset_ext"`
	MaxConcurrentRequests int    `yaml:"max_concurrent_requests" validate:"gte=0"`
}

// Default returns a Server with the built-in defaults applied.
func Default() Server {
	return Server{
		Addr:                  defaults.DefaultHTTPAddr,
		DatasetPath:           defaults.DefaultDatasetPath,
		MaxConcurrentRequests: defaults.DefaultMaxConcurrentRequests,
	}
}

// Load reads a YAML server configuration. Missing fields keep their
// defaults; the merged result is validated before use.
func Load(path string) (Server, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration fields.
func (s Server) Validate() error {
	return validation.ValidateStruct(s)
}
