// SPDX-License-Identifier: MIT
package floatlist

import (
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		desc    string
		input   string
		want    []float32
		wantErr bool
	}{
		{"mixed separators", "1.0, 2.0;\t3e-2\n-4", []float32{1.0, 2.0, 0.03, -4.0}, false},
		{"spaces only", "0.5 0.25 0.125", []float32{0.5, 0.25, 0.125}, false},
		{"newlines", "1\n2\n3", []float32{1, 2, 3}, false},
		{"leading and trailing noise", "  \n,1.5;;\t ", []float32{1.5}, false},
		{"scientific notation", "1e3 -2.5E-1", []float32{1000, -0.25}, false},
		{"empty input", "", []float32{}, false},
		{"separators only", " ,;\t\r\n ", []float32{}, false},
		{"alpha token", "1.0 abc", nil, true},
		{"unit suffix", "3.0dB", nil, true},
		{"lone sign", "+-", nil, true},
		{"dots only", "...", nil, true},
		// Tokens built only from numeric characters still have to be
		// real numbers; no coercion of malformed ones.
		{"dangling exponent", "1e", nil, true},
		{"lone dot", ".", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := Parse(tt.input)

			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Fatalf("expected ErrParse, got %v", err)
				}
				if len(got) != 0 {
					t.Errorf("expected no values on parse error, got %v", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("value count mismatch: got %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("value %d mismatch: got %g, want %g", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatJoinsWithCommaNewline(t *testing.T) {
	got := Format([]float32{1, -0.5, 0.03})
	want := "1,\n-0.5,\n0.03"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if Format(nil) != "" {
		t.Errorf("empty input should format to empty string")
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	values := []float32{0, 0.1, -0.1, 1, -1, 0.25, 3.141593, 1e-7, -123.4567, 8192}

	parsed, err := Parse(Format(values))
	if err != nil {
		t.Fatalf("round trip parse failed: %v", err)
	}
	if len(parsed) != len(values) {
		t.Fatalf("round trip length mismatch: got %d, want %d", len(parsed), len(values))
	}

	// 7 significant digits: exact equality relaxed to relative error <= 1e-6.
	for i := range values {
		diff := math.Abs(float64(parsed[i] - values[i]))
		limit := 1e-6 * math.Max(1, math.Abs(float64(values[i])))
		if diff > limit {
			t.Errorf("value %d round trip drift: got %g, want %g", i, parsed[i], values[i])
		}
	}
}
