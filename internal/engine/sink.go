// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Sink output format: 24-bit signed PCM, little-endian, no extensible
// chunks.
const (
	sinkBitDepth = 24
	sinkMaxValue = 1<<(sinkBitDepth-1) - 1
	sinkMinValue = -(1 << (sinkBitDepth - 1))
)

// wavSink writes 24-bit PCM WAV through a temporary file adjacent to the
// target. The target is replaced atomically on Finalize; every failure
// path discards the temporary so the target is either the prior file or
// the newly completed output, never a truncated intermediate.
type wavSink struct {
	path     string
	tmpPath  string
	file     *os.File
	encoder  *wav.Encoder
	buf      *audio.IntBuffer
	channels int
}

// newWAVSink creates the temporary file and the encoder. frames is the
// block capacity the reusable conversion buffer is sized for.
func newWAVSink(path string, sampleRate, channels, frames int) (*wavSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return nil, err
	}

	return &wavSink{
		path:    path,
		tmpPath: f.Name(),
		file:    f,
		encoder: wav.NewEncoder(f, sampleRate, sinkBitDepth, channels, 1),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: sinkBitDepth,
			Data:           make([]int, frames*channels),
		},
		channels: channels,
	}, nil
}

// Write interleaves and quantizes frames samples from the planar data
// and appends them to the temporary file.
func (s *wavSink) Write(data [][]float32, frames int) error {
	n := frames * s.channels
	s.buf.Data = s.buf.Data[:n]
	for i := 0; i < frames; i++ {
		for ch := 0; ch < s.channels; ch++ {
			v := int(data[ch][i] * sinkMaxValue)
			if v > sinkMaxValue {
				v = sinkMaxValue
			} else if v < sinkMinValue {
				v = sinkMinValue
			}
			s.buf.Data[i*s.channels+ch] = v
		}
	}
	return s.encoder.Write(s.buf)
}

// Finalize closes the encoder and renames the temporary over the target.
func (s *wavSink) Finalize() error {
	if err := s.encoder.Close(); err != nil {
		s.Discard()
		return err
	}
	if err := s.file.Close(); err != nil {
		s.Discard()
		return err
	}
	s.file = nil
	if err := os.Rename(s.tmpPath, s.path); err != nil {
		os.Remove(s.tmpPath)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Discard drops the temporary file without touching the target.
func (s *wavSink) Discard() {
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	os.Remove(s.tmpPath)
}
