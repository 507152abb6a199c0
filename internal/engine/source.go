// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// Source is a decoded audio stream with random access by sample
// position. Samples are 32-bit float planar; implementations normalize
// whatever the container stores.
type Source interface {
	// SampleRate reports the stream's rate in Hz.
	SampleRate() float64
	// NumChannels reports the stream's channel count.
	NumChannels() int
	// Length reports the stream length in samples per channel.
	Length() int64
	// Read copies n samples starting at srcOffset into
	// dst[ch][destOffset:destOffset+n] for every channel in dst.
	Read(dst [][]float32, destOffset, n int, srcOffset int64) error
}

// MemorySource is a fully decoded in-memory Source.
type MemorySource struct {
	rate     float64
	channels int
	planar   [][]float32
}

// NewMemorySource wraps planar sample data. All channel slices must have
// equal length.
func NewMemorySource(rate float64, planar [][]float32) *MemorySource {
	return &MemorySource{rate: rate, channels: len(planar), planar: planar}
}

// SampleRate implements Source.
func (s *MemorySource) SampleRate() float64 { return s.rate }

// NumChannels implements Source.
func (s *MemorySource) NumChannels() int { return s.channels }

// Length implements Source.
func (s *MemorySource) Length() int64 {
	if s.channels == 0 {
		return 0
	}
	return int64(len(s.planar[0]))
}

// Read implements Source.
func (s *MemorySource) Read(dst [][]float32, destOffset, n int, srcOffset int64) error {
	if srcOffset < 0 || srcOffset+int64(n) > s.Length() {
		return fmt.Errorf("read of %d samples at %d exceeds source length %d", n, srcOffset, s.Length())
	}
	for ch := range dst {
		if ch >= s.channels {
			break
		}
		copy(dst[ch][destOffset:destOffset+n], s.planar[ch][srcOffset:srcOffset+int64(n)])
	}
	return nil
}

// OpenWAVFile decodes a RIFF/WAV file into a MemorySource. Integer PCM
// of any bit depth is normalized to [-1, 1). Returns an error wrapping
// ErrUnreadableSource when the file cannot be decoded.
func OpenWAVFile(path string) (*MemorySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableSource, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrUnreadableSource, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableSource, err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %s declares no channels", ErrUnreadableSource, path)
	}

	bitDepth := int(dec.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}
	scale := float32(1) / float32(int64(1)<<(bitDepth-1))

	frames := len(buf.Data) / channels
	planar := make([][]float32, channels)
	for ch := range planar {
		planar[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			planar[ch][i] = float32(buf.Data[i*channels+ch]) * scale
		}
	}

	return NewMemorySource(float64(buf.Format.SampleRate), planar), nil
}
