// SPDX-License-Identifier: MIT
//
// Package floatlist parses and formats free-form textual lists of float
// samples, the interchange format of the array processing surface. Input
// is forgiving (values split on any mix of whitespace, commas and
// semicolons); output is machine-friendly CSV-like text.
package floatlist

import (
	"errors"
	"strconv"
	"strings"
)

// ErrParse is returned when the input contains a non-numeric token.
var ErrParse = errors.New("non-numeric content in float list")

// numericChars is the full character set a token may consist of.
const numericChars = "+-0123456789.eE"

func isNumericToken(tok string) bool {
	for _, r := range tok {
		if !strings.ContainsRune(numericChars, r) {
			return false
		}
	}
	return true
}

// Parse converts text into a slice of float32 values. Separators may be
// any run of spaces, tabs, newlines, commas or semicolons. Empty input
// yields an empty slice and no error; any token containing characters
// outside [+-0-9.eE], or not parseable as a number, yields ErrParse.
func Parse(text string) ([]float32, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '\t', '\r', '\n', ',', ';':
			return true
		}
		return false
	})

	if len(fields) == 0 {
		return []float32{}, nil
	}

	values := make([]float32, 0, len(fields))
	for _, tok := range fields {
		if !isNumericToken(tok) {
			return nil, ErrParse
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, ErrParse
		}
		values = append(values, float32(v))
	}

	return values, nil
}

// Format renders values with 7 significant digits, joined by ",\n".
func Format(values []float32) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', 7, 32))
	}
	return sb.String()
}
