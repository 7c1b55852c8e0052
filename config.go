package cdl

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"
)

// Config is the user-facing configuration, read from a YAML or JSON file.
type Config struct {
	Numbers      string `json:"numbers,omitempty" validate:"omitempty,oneof=permissive warn strict"`
	ContextLines int    `json:"context_lines" validate:"min=0,max=20"`
	Color        string `json:"color,omitempty" validate:"omitempty,oneof=auto always never"`
	Verbose      bool   `json:"verbose,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Numbers:      "permissive",
		ContextLines: 2,
		Color:        "auto",
	}
}

// LoadConfig reads path over the defaults. Files ending in .yaml or .yml are
// YAML, anything else is JSON.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	conf := DefaultConfig()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, conf)
	default:
		err = json.Unmarshal(raw, conf)
	}
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (conf *Config) Validate() error {
	return validator.New().Struct(conf)
}

func (conf *Config) NumberMode() NumberMode {
	mode, err := ParseNumberMode(conf.Numbers)
	if err != nil {
		return Permissive
	}
	return mode
}

// Options builds parser options. A nil logger discards everything.
func (conf *Config) Options(logger *slog.Logger) Options {
	return Options{
		Numbers: conf.NumberMode(),
		Logger:  logger,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
