package config

import "testing"

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.BlockSize != DefaultBlockSize {
		t.Errorf("BlockSize: got %d, want %d", cfg.BlockSize, DefaultBlockSize)
	}
	if cfg.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate: got %g, want %d", cfg.SampleRate, DefaultSampleRate)
	}
	if cfg.HTTPHost != DefaultHTTPHost {
		t.Errorf("HTTPHost: got %q, want %q", cfg.HTTPHost, DefaultHTTPHost)
	}
	if cfg.HTTPPort != DefaultHTTPPort {
		t.Errorf("HTTPPort: got %d, want %d", cfg.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestClampBlockSize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, MinBlockSize},
		{-100, MinBlockSize},
		{MinBlockSize, MinBlockSize},
		{1024, 1024},
		{MaxBlockSize, MaxBlockSize},
		{MaxBlockSize + 1, MaxBlockSize},
	}
	for _, tt := range tests {
		if got := ClampBlockSize(tt.in); got != tt.want {
			t.Errorf("ClampBlockSize(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}
