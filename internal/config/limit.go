package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// decimalPattern is the decimal literal grammar of a JavaScript Number() conversion:
	// an optional sign, then Infinity or digits with an optional fraction and exponent.
	decimalPattern = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)$`)

	// radixPattern matches unsigned hex, binary and octal integer literals.
	radixPattern = regexp.MustCompile(`^0(?:[xX][0-9a-fA-F]+|[bB][01]+|[oO][0-7]+)$`)
)

// LimitPolicy governs the "limit" query parameter: the value used when it is absent or
// not a number, and the inclusive range it is clamped to.
type LimitPolicy struct {
	Default int `yaml:"default"`
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
}

// DefaultLimitPolicy returns default 50, range [1, 100].
func DefaultLimitPolicy() LimitPolicy {
	return LimitPolicy{Default: 50, Min: 1, Max: 100}
}

// Validate checks 1 <= Min <= Default <= Max.
func (p LimitPolicy) Validate() error {
	if p.Min < 1 {
		return fmt.Errorf("limit min must be at least 1, got %d", p.Min)
	}
	if p.Min > p.Default || p.Default > p.Max {
		return fmt.Errorf("limit policy must satisfy min <= default <= max, got %d/%d/%d", p.Min, p.Default, p.Max)
	}
	return nil
}

// Parse converts a raw query value to a limit. Empty or blank input and anything that is
// not a number give Default. Numbers are clamped to [Min, Max]; fractions round up, so
// "2.5" admits three entries.
//
// Only the spellings a browser's Number() accepts count as numbers, so Go-only forms
// such as "inf", "1_0" or "0x1p4" give Default.
func (p LimitPolicy) Parse(raw string) int {
	s := strings.TrimFunc(raw, isSpace)
	if s == "" {
		return p.Default
	}

	switch {
	case decimalPattern.MatchString(s):
		v, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return p.Default
		}
		return p.Clamp(v)
	case radixPattern.MatchString(s):
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return p.Default
		}
		return p.Clamp(float64(n))
	default:
		return p.Default
	}
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Clamp rounds v up and bounds it to [Min, Max].
func (p LimitPolicy) Clamp(v float64) int {
	v = math.Ceil(v)
	if v < float64(p.Min) {
		return p.Min
	}
	if v > float64(p.Max) {
		return p.Max
	}
	return int(v)
}
