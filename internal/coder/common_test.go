// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	cdxinterfaces "go.e43.eu/cdx/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDirection int

const (
	bothTest testDirection = iota
	encodeTest
	decodeTest
)

type testcase struct {
	// Name of this test case
	Name string

	// Which directions to run this test in (defaults to both)
	//
	// Encode tests parse Text and compare the encoded payload with Bytes. Decode
	// tests decode Bytes, compare the result's text with Text, and check that
	// re-encoding the decoded value reproduces Bytes.
	Direction testDirection

	// Registry type name of the codec under test
	Type string

	// The attribute text of the value
	Text string

	// The payload of the value
	Bytes []byte

	// Font table available to string codecs
	Fonts cdxinterfaces.FontTable

	// Error expected on parse/encode or decode
	EncErrorIs error
	DecErrorIs error
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func RunTestcases(t *testing.T, tcs []testcase) {
	t.Parallel()

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			c, ok := Lookup(tc.Type)
			require.Truef(t, ok, "No codec for %s", tc.Type)

			if tc.Direction != decodeTest {
				t.Run("Encode", func(t *testing.T) {
					var logs bytes.Buffer
					v, err := c.Parse(tc.Text)
					if err == nil {
						var b []byte
						b, err = Encode(v, tc.Fonts, testLogger(&logs))
						if err == nil {
							require.Nil(t, tc.EncErrorIs, "Encoding should have returned an error")
							assert.Equal(t, tc.Bytes, nonNil(b), "encoded payload should match")
							return
						}
					}
					require.NotNil(t, tc.EncErrorIs, "Encode should succeed, got %v", err)
					require.Truef(t, errors.Is(err, tc.EncErrorIs), "Error expected to be %s, but was %s", tc.EncErrorIs, err)
				})
			}

			if tc.Direction != encodeTest {
				t.Run("Decode", func(t *testing.T) {
					var logs bytes.Buffer
					log := testLogger(&logs)
					v, err := Decode(c, tc.Bytes, tc.Fonts, log)
					if tc.DecErrorIs != nil {
						require.Error(t, err, "Decoding should have returned an error")
						require.Truef(t, errors.Is(err, tc.DecErrorIs), "Error expected to be %s, but was %s", tc.DecErrorIs, err)
						return
					}
					require.NoError(t, err, "Decode should succeed")
					assert.Equal(t, tc.Text, v.String(), "decoded text should match")

					b, err := Encode(v, tc.Fonts, log)
					require.NoError(t, err, "Re-encoding should succeed")
					assert.Equal(t, tc.Bytes, nonNil(b), "re-encoded payload should match")
				})
			}
		})
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
