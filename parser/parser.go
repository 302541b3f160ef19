// Package parser holds the field normalizers applied to raw listing text.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeCover drops everything from the first '?' onwards.
func NormalizeCover(src string) string {
	if i := strings.IndexByte(src, '?'); i >= 0 {
		return src[:i]
	}
	return src
}

// NormalizeAuthor trims spacing from the contributor text.
func NormalizeAuthor(text string) string {
	return strings.TrimSpace(text)
}

// EscapeDescription trims the text and escapes double quotes and newlines so it
// can sit inside a generated string literal. Single quotes are left alone.
func EscapeDescription(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, `"`, `\"`)
	return strings.ReplaceAll(text, "\n", `\n`)
}

// OptionalDecimal parses text as a decimal number. Blank text yields def.
// Text that is present but not a finite number is an error.
func OptionalDecimal(text string, def float64) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", text)
	}
	return v, nil
}

// ListenCount derives the placeholder listen count for a listing position.
func ListenCount(base, step, id int) int {
	return base + id*step
}
