package service

import "unicode/utf8"

// Column widths of the mysql schema, counted in characters.  TEXT
// columns hold 65535 bytes, so free text is capped at a quarter of that
// for four-byte utf8mb4 runes.
const (
	maxEmail        = 255
	maxName         = 255
	maxPhone        = 32
	maxService      = 64
	maxExperience   = 255
	maxLocation     = 128
	maxLocationText = 255
	maxWork         = 64
	maxWorkText     = 255
	maxFreeText     = 16383
)

type field struct {
	name  string
	value string
	max   int
}

// checkLengths rejects the first value longer than its column.
func checkLengths(fields ...field) error {
	for _, f := range fields {
		if n := utf8.RuneCountInString(f.value); n > f.max {
			return invalid("%s must be at most %d characters, got %d", f.name, f.max, n)
		}
	}
	return nil
}
