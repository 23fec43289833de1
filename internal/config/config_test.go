// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.e43.eu/cdx"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "cdxml", cfg.Writer.Format)
	assert.Equal(t, uint32(cdx.DefaultFirstObjectID), cfg.Writer.FirstObjectID)

	l, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
reader:
  legacy: true
  skip_unknown_objects: true
writer:
  format: base64
  first_object_id: 100
`))
	require.NoError(t, err)

	assert.True(t, cfg.Reader.Legacy)
	assert.False(t, cfg.Reader.SkipUnknownProperties)
	assert.True(t, cfg.Reader.SkipUnknownObjects)
	assert.Equal(t, "base64", cfg.Writer.Format)
	assert.Equal(t, uint32(100), cfg.Writer.FirstObjectID)

	l, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	// Empty files give the defaults
	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	testcases := []struct {
		name string
		yaml string
	}{
		{"UnknownKey", "reader:\n  legasy: true\n"},
		{"BadLevel", "log_level: loud\n"},
		{"BadFormat", "writer:\n  format: pdf\n"},
		{"BadType", "writer:\n  first_object_id: many\n"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdxconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("writer:\n  skip_unknown_attributes: true\n"), 0o644))

	t.Setenv(EnvVar, "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Setenv(EnvVar, path)
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.Writer.SkipUnknownAttributes)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Reader.Legacy = true
	cfg.Reader.SkipUnknownProperties = true
	cfg.Writer.SkipUnknownAttributes = true

	logger := slog.Default()
	assert.Equal(t, cdx.Options{
		Logger:                logger,
		Legacy:                true,
		SkipUnknownProperties: true,
		SkipUnknownAttributes: true,
		FirstObjectID:         cdx.DefaultFirstObjectID,
	}, cfg.Options(logger))
}
