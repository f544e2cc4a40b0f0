// Package formatting parses and formats the loosely structured values the
// service exchanges with people and models: byte sizes and JSON embedded in text.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// units are base-1024 multiples. int64 overflows past EB.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with the largest unit that keeps the value at or
// above one, using precision decimal places.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}

	value, exp := float64(n), 0
	for math.Abs(value) >= 1024 && exp < len(units)-1 {
		value /= 1024
		exp++
	}
	return strconv.FormatFloat(value, 'f', max(precision, 0), 64) + " " + units[exp]
}

// ParseBytes reads sizes such as "512", "64KB", or "1.5 mb". Units are
// case-insensitive; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	unit := strings.ToUpper(m[2])
	if unit == "" {
		unit = "B"
	}
	exp := slices.Index(units, unit)
	if exp < 0 {
		return 0, fmt.Errorf("unknown byte size unit %q", m[2])
	}

	return int64(value * math.Pow(1024, float64(exp))), nil
}
