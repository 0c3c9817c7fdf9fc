// Package sizeunit converts between byte counts and the human-readable size
// strings stored on file records ("1.50 KB", "3.20 MB").
package sizeunit

import (
	"fmt"
	"strconv"
	"strings"
)

var factors = map[string]float64{
	"B":     1,
	"BYTES": 1,
	"KB":    1024,
	"MB":    1024 * 1024,
	"GB":    1024 * 1024 * 1024,
	"TB":    1024 * 1024 * 1024 * 1024,
}

var units = []string{"Bytes", "KB", "MB", "GB", "TB"}

// Parse converts a formatted size string back to bytes. Malformed input
// contributes nothing to aggregates, so any parse failure yields 0.
func Parse(s string) float64 {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", "."), 64)
	if err != nil {
		return 0
	}

	factor, ok := factors[strings.ToUpper(parts[1])]
	if !ok {
		factor = 1
	}
	return value * factor
}

// Format renders a byte count with two decimals in the largest unit that
// keeps the value under 1024. Anything past that stays in TB.
func Format(value float64) string {
	for _, unit := range units {
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f TB", value)
}
