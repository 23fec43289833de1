// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"
	"strconv"
	"strings"

	"go.e43.eu/cdx/internal/errors"
)

// formatFloat renders f the way CDXML producers do: the shortest representation
// which round trips, always with a fractional part ("72.0", "12.05"), switching to
// exponent notation outside [1e-4, 1e16).
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// FormatFloat renders a float in CDXML style, e.g. "72.0" or "1e-05"
func FormatFloat(f float64) string {
	return formatFloat(f)
}

// roundTo rounds f to the given number of decimal places
func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(f*p) / p
	if r == 0 {
		// Avoid "-0.0"
		return 0
	}
	return r
}

func parseFloat(typ, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.ValueError{Type: typ, Value: s, Underlying: err}
	}
	return f, nil
}

// parseInt parses a decimal integer within [min, max]. Integral floats ("12.0")
// are accepted since some producers write them.
func parseInt(typ, s string, min, max int64) (int64, error) {
	t := strings.TrimSpace(s)
	i, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(t, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return 0, errors.ValueError{Type: typ, Value: s, Underlying: err}
		}
		i = int64(f)
	}
	if i < min || i > max {
		return 0, errors.ValueError{Type: typ, Value: s}
	}
	return i, nil
}
