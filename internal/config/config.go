// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package config loads cdxconv configuration.
//
// Configuration comes from a single YAML file named by the --config flag or the
// CDXCONV_CONFIG environment variable. Flags given on the command line override
// values from the file. Unknown keys are errors, so that misspelt options are
// not silently ignored.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go.e43.eu/cdx"
)

// EnvVar names the environment variable holding the configuration file path
const EnvVar = "CDXCONV_CONFIG"

// Config is the cdxconv configuration
type Config struct {
	// Reader configures how documents are read.
	Reader ReaderConfig `yaml:"reader"`

	// Writer configures how documents are written.
	Writer WriterConfig `yaml:"writer"`

	// LogLevel is one of debug, info, warn or error.
	// Default: warn
	LogLevel string `yaml:"log_level"`
}

// ReaderConfig configures document reading
type ReaderConfig struct {
	// Legacy accepts documents with the legacy CDX header.
	Legacy bool `yaml:"legacy"`

	// SkipUnknownProperties skips CDX properties missing from the registry.
	SkipUnknownProperties bool `yaml:"skip_unknown_properties"`

	// SkipUnknownObjects skips CDX objects missing from the registry.
	SkipUnknownObjects bool `yaml:"skip_unknown_objects"`
}

// WriterConfig configures document writing
type WriterConfig struct {
	// Format is the output format used when it cannot be derived from the
	// output file name: cdx, cdxml or base64.
	// Default: cdxml
	Format string `yaml:"format"`

	// SkipUnknownAttributes skips attributes with no CDX property.
	SkipUnknownAttributes bool `yaml:"skip_unknown_attributes"`

	// FirstObjectID is the first id allocated in documents without ids.
	// Default: 5000
	FirstObjectID uint32 `yaml:"first_object_id"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Writer: WriterConfig{
			Format:        "cdxml",
			FirstObjectID: cdx.DefaultFirstObjectID,
		},
		LogLevel: "warn",
	}
}

// Load loads the file named by CDXCONV_CONFIG, or returns the defaults if it is
// not set
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a file, on top of the defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses configuration from YAML, on top of the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that enumerated values are known
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := cdx.ParseFormat(c.Writer.Format); err != nil {
		return fmt.Errorf("writer.format: %w", err)
	}
	return nil
}

// Level returns the configured log level
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// Options returns converter options for the configuration
func (c *Config) Options(logger *slog.Logger) cdx.Options {
	return cdx.Options{
		Logger:                logger,
		Legacy:                c.Reader.Legacy,
		SkipUnknownProperties: c.Reader.SkipUnknownProperties,
		SkipUnknownObjects:    c.Reader.SkipUnknownObjects,
		SkipUnknownAttributes: c.Writer.SkipUnknownAttributes,
		FirstObjectID:         c.Writer.FirstObjectID,
	}
}
