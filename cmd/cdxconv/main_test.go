// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.e43.eu/cdx"
	"go.e43.eu/cdx/internal/config"
)

const testCDXML = `<?xml version="1.0" encoding="UTF-8"?>
<CDXML><page id="2"><fragment id="3"><n id="4" p="1.0 2.0" Element="8"/></fragment><embeddedobject id="5" PNG="3q0="/></page></CDXML>`

func writeInput(t *testing.T) string {
	t.Setenv(config.EnvVar, "")
	path := filepath.Join(t.TempDir(), "in.cdxml")
	require.NoError(t, os.WriteFile(path, []byte(testCDXML), 0o644))
	return path
}

func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestConvertFile(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "out.cdx")

	_, _, err := runCmd(t, "", "convert", in, out)
	require.NoError(t, err)

	doc, err := cdx.NewConverter(cdx.Options{}).ReadFile(out)
	require.NoError(t, err)
	n := doc.ElementByID(4)
	require.NotNil(t, n)
	assert.Equal(t, "8", n.AttrOr("Element", ""))
}

func TestConvertStdout(t *testing.T) {
	in := writeInput(t)

	stdout, _, err := runCmd(t, "", "convert", in, "--to", "cdxml")
	require.NoError(t, err)
	assert.Contains(t, stdout, `<n id="4" p="1.0 2.0" Element="8"/>`)

	stdout, _, err = runCmd(t, "", "convert", in, "-", "--to", "base64")
	require.NoError(t, err)
	doc, err := cdx.NewConverter(cdx.Options{}).ReadBase64CDX(stdout)
	require.NoError(t, err)
	assert.NotNil(t, doc.ElementByID(4))

	// The configured format applies when --to is absent
	stdout, _, err = runCmd(t, testCDXML, "convert", "--from", "cdxml", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "<?xml"), stdout)
}

func TestDump(t *testing.T) {
	in := writeInput(t)

	stdout, _, err := runCmd(t, "", "dump", in)
	require.NoError(t, err)
	assert.Equal(t, `CDXML
  page#2
    fragment#3
      n#4 p="1.0 2.0" Element="8"
    embeddedobject#5 PNG="3q0="
`, stdout)

	_, _, err = runCmd(t, testCDXML, "dump", "-")
	assert.Error(t, err, "--from is required for standard input")
}

func TestExtract(t *testing.T) {
	in := writeInput(t)
	dir := filepath.Join(t.TempDir(), "objects")

	stdout, _, err := runCmd(t, "", "extract", in, dir)
	require.NoError(t, err)

	name := filepath.Join(dir, "5-0.png")
	assert.Equal(t, name+"\tPNG\t2 bytes\n", stdout)
	b, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, b)
}

func TestConfigFile(t *testing.T) {
	in := writeInput(t)
	cfgPath := filepath.Join(t.TempDir(), "cdxconv.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("writer:\n  format: base64\n"), 0o644))

	stdout, _, err := runCmd(t, "", "convert", "--config", cfgPath, in)
	require.NoError(t, err)
	_, err = cdx.NewConverter(cdx.Options{}).ReadBase64CDX(stdout)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: loud\n"), 0o644))
	_, _, err = runCmd(t, "", "convert", "--config", cfgPath, in)
	assert.Error(t, err)
}

func TestUsageErrors(t *testing.T) {
	testcases := []struct {
		name string
		args []string
	}{
		{"NoCommand", nil},
		{"UnknownCommand", []string{"frobnicate"}},
		{"ConvertNoInput", []string{"convert"}},
		{"DumpTooMany", []string{"dump", "a", "b"}},
		{"ExtractNoDir", []string{"extract", "a"}},
		{"BadFlag", []string{"convert", "--bogus", "a"}},
		{"MissingFile", []string{"dump", "does-not-exist.cdx"}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(config.EnvVar, "")
			_, _, err := runCmd(t, "", tc.args...)
			assert.Error(t, err)
		})
	}

	stdout, _, err := runCmd(t, "", "help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "COMMANDS")
}
