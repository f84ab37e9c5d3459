// Package config loads settings for the nbtedit viewer service.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the viewer settings. Zero values are replaced by defaults.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `yaml:"addr"`
	// Root is the directory whose NBT files are served.
	Root string `yaml:"root"`
	// Verbose enables request and debug logging.
	Verbose bool `yaml:"verbose"`
	// Pretty selects indented SNBT for the raw view.
	Pretty *bool `yaml:"pretty,omitempty"`
	// MaxUpload limits the body of POST /convert, in bytes.
	MaxUpload int64 `yaml:"max_upload"`
	// Extensions lists the file suffixes indexed under Root.
	Extensions []string `yaml:"extensions"`
}

const (
	DefaultAddr      = ":8080"
	DefaultMaxUpload = 32 << 20
)

// DefaultExtensions are the suffixes of files that usually hold NBT.
var DefaultExtensions = []string{".dat", ".nbt", ".snbt", ".dat_old", ".schematic", ".litematic", ".mcstructure"}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Root == "" {
		c.Root = "."
	}
	if c.Pretty == nil {
		pretty := true
		c.Pretty = &pretty
	}
	if c.MaxUpload <= 0 {
		c.MaxUpload = DefaultMaxUpload
	}
	if len(c.Extensions) == 0 {
		c.Extensions = DefaultExtensions
	}
}

// Load reads a YAML configuration file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults. Unknown keys are
// rejected so typos do not pass silently.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

// IsPretty reports the effective Pretty setting.
func (c *Config) IsPretty() bool { return c.Pretty == nil || *c.Pretty }
