// SPDX-License-Identifier: MIT
package plugin

import (
	"errors"
	"math"
	"testing"
)

func TestBuiltinFindTypes(t *testing.T) {
	tests := []struct {
		desc     string
		path     string
		wantName string
		wantHit  bool
	}{
		{"identity", "builtin:identity", "Identity", true},
		{"gain default", "builtin:gain", "Gain +6.0 dB", true},
		{"gain custom", "builtin:gain?db=-3.5", "Gain -3.5 dB", true},
		{"invert", "builtin:invert", "Invert", true},
		{"unknown builtin", "builtin:chorus", "", false},
		{"non-builtin path", "/usr/lib/vst/comp.so", "", false},
	}

	f := builtinFormat{}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			types, err := f.FindTypes(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.wantHit {
				if len(types) != 0 {
					t.Fatalf("expected no types, got %v", types)
				}
				return
			}
			if len(types) != 1 {
				t.Fatalf("expected one type, got %d", len(types))
			}
			if types[0].Name != tt.wantName {
				t.Errorf("name mismatch: got %q, want %q", types[0].Name, tt.wantName)
			}
			if types[0].Inputs != 2 || types[0].Outputs != 2 {
				t.Errorf("builtins declare stereo I/O, got %d/%d", types[0].Inputs, types[0].Outputs)
			}
		})
	}
}

func TestBuiltinGainProcess(t *testing.T) {
	p, err := newBuiltin("builtin:gain?db=6")
	if err != nil {
		t.Fatalf("newBuiltin failed: %v", err)
	}

	p.SetBusLayout(2, 2, 48000, 64)
	p.Prepare(48000, 64)
	p.SuspendProcessing(false)

	buf := [][]float32{make([]float32, 64), make([]float32, 64)}
	for i := range buf[0] {
		buf[0][i] = 0.25
		buf[1][i] = -0.25
	}

	p.Process(buf, nil)

	want := float32(0.25 * math.Pow(10, 6.0/20))
	if diff := math.Abs(float64(buf[0][0] - want)); diff > 1e-6 {
		t.Errorf("gain output %g, want %g", buf[0][0], want)
	}
	if diff := math.Abs(float64(buf[1][0] + want)); diff > 1e-6 {
		t.Errorf("gain output %g, want %g", buf[1][0], -want)
	}
}

func TestBuiltinIdentityLeavesSignal(t *testing.T) {
	p, err := newBuiltin("builtin:identity")
	if err != nil {
		t.Fatalf("newBuiltin failed: %v", err)
	}
	p.Prepare(44100, 128)

	buf := [][]float32{{0.5, -0.5, 1, -1}}
	p.Process(buf, nil)

	want := []float32{0.5, -0.5, 1, -1}
	for i := range want {
		if buf[0][i] != want[i] {
			t.Errorf("sample %d changed: got %g, want %g", i, buf[0][i], want[i])
		}
	}
}

func TestBuiltinSuspendedDoesNotProcess(t *testing.T) {
	p, err := newBuiltin("builtin:invert")
	if err != nil {
		t.Fatalf("newBuiltin failed: %v", err)
	}
	p.Prepare(44100, 64)
	p.SuspendProcessing(true)

	buf := [][]float32{{0.5}}
	p.Process(buf, nil)
	if buf[0][0] != 0.5 {
		t.Errorf("suspended plugin must not touch the signal, got %g", buf[0][0])
	}
}

func TestBuiltinHasNoEditor(t *testing.T) {
	p, err := newBuiltin("builtin:identity")
	if err != nil {
		t.Fatalf("newBuiltin failed: %v", err)
	}
	if p.HasEditor() {
		t.Error("builtins report no editor")
	}
	if _, err := p.CreateEditor(); !errors.Is(err, ErrNoEditor) {
		t.Errorf("expected ErrNoEditor, got %v", err)
	}
}

func TestBuiltinLoadsThroughDefaultRegistry(t *testing.T) {
	host := NewHost(NewRegistry())
	if err := host.Load("builtin:gain?db=6", 44100, 1024); err != nil {
		t.Fatalf("loading builtin through registry failed: %v", err)
	}
	if host.Descriptor().Format != "Builtin" {
		t.Errorf("descriptor format mismatch: %q", host.Descriptor().Format)
	}
	host.Unload()
}
