// SPDX-License-Identifier: MIT
/*
Package engine implements the offline plugin processing core: it owns no
plugin itself but drives the host's loaded instance through a stream of
fixed-size blocks under non-realtime semantics, from a decoded audio
source to a 24-bit WAV sink or from an in-memory sample array back to an
array.

Channel policy: a mono source is promoted to a stereo bus when the
plugin declares two or more outputs, because many effect plugins are
effectively stereo-only. The work buffer is allocated with
max(bus, plugin inputs, plugin outputs) channels so both ends of the
plugin bus always fit.

The engine never logs; every failure terminates the run with a sentinel
error and the plugin is released on all exit paths.
*/
package engine

import (
	"context"
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2"

	"vsthost/internal/config"
	"vsthost/internal/plugin"
)

// Processor drives a single plugin through block streams. It is
// stateless across runs except for the cached block size, which is
// written before a run is dispatched and read by the worker.
type Processor struct {
	host      *plugin.Host
	blockSize int
}

// New creates a processor bound to the given plugin host.
func New(host *plugin.Host) *Processor {
	return &Processor{host: host, blockSize: config.DefaultBlockSize}
}

// SetBlockSize caches the block size for subsequent runs. The value is
// clamped on use, not on entry.
func (p *Processor) SetBlockSize(n int) { p.blockSize = n }

// BlockSize returns the cached block size clamped to the supported
// range.
func (p *Processor) BlockSize() int { return config.ClampBlockSize(p.blockSize) }

// channelPlan picks the bus width the plugin is driven with (proc) and
// the work buffer width (buf) for a source with srcChannels channels.
func channelPlan(pl plugin.Plugin, srcChannels int) (proc, buf int) {
	nin := max(1, pl.InputChannels())
	nout := max(1, pl.OutputChannels())

	proc = srcChannels
	if srcChannels == 1 && nout >= 2 {
		proc = 2
	}

	buf = max(proc, nin, nout)
	return proc, buf
}

// preparePlugin runs the pre-roll protocol and returns the matching
// teardown, which the caller must defer so that every exit path releases
// the plugin and clears non-realtime mode.
func preparePlugin(pl plugin.Plugin, proc int, sampleRate float64, blockSize int) func() {
	pl.SetNonRealtime(true)
	pl.SetBusLayout(proc, proc, sampleRate, blockSize)
	pl.Prepare(sampleRate, blockSize)
	pl.Reset()
	pl.SuspendProcessing(false)

	return func() {
		pl.Release()
		pl.SetNonRealtime(false)
	}
}

// ProcessFilePath decodes inPath and streams it through the loaded
// plugin into a 24-bit WAV at outPath.
func (p *Processor) ProcessFilePath(ctx context.Context, inPath, outPath string) (Stats, error) {
	src, err := OpenWAVFile(inPath)
	if err != nil {
		return Stats{}, err
	}
	return p.ProcessFile(ctx, src, outPath)
}

// ProcessFile streams src through the loaded plugin into a 24-bit WAV at
// outPath, returning run statistics. The target file is replaced
// atomically only after the full run succeeds; cancellation is honored
// between blocks and discards the partial output.
func (p *Processor) ProcessFile(ctx context.Context, src Source, outPath string) (Stats, error) {
	var stats Stats

	pl := p.host.Current()
	if pl == nil {
		return stats, plugin.ErrNotLoaded
	}

	sampleRate := src.SampleRate()
	srcChannels := src.NumChannels()
	total := src.Length()
	blockSize := p.BlockSize()

	proc, bufChannels := channelPlan(pl, srcChannels)

	release := preparePlugin(pl, proc, sampleRate, blockSize)
	defer release()

	sink, err := newWAVSink(outPath, int(sampleRate), proc, blockSize)
	if err != nil {
		return stats, fmt.Errorf("%w: %s", ErrSinkOpen, err)
	}

	work := NewBlock(bufChannels, blockSize)
	dry := NewBlock(proc, blockSize)
	events := make([]midi.Message, 0) // reused, always empty

	var (
		drySumSquares  float64
		diffSumSquares float64
		maxAbsDiff     float32
		totalSamples   int64
	)

	for position := int64(0); position < total; {
		select {
		case <-ctx.Done():
			sink.Discard()
			return stats, ErrCancelled
		default:
		}

		b := blockSize
		if rem := total - position; rem < int64(b) {
			b = int(rem)
		}

		work.Clear()
		if err := src.Read(work.Data()[:srcChannels], 0, b, position); err != nil {
			sink.Discard()
			return stats, fmt.Errorf("%w: %s", ErrUnreadableSource, err)
		}

		// Mono input duplicated to the stereo bus.
		if srcChannels == 1 && proc == 2 {
			copy(work.Channel(1)[:b], work.Channel(0)[:b])
		}

		// Snapshot the input for the dry/wet difference metric.
		for ch := 0; ch < proc; ch++ {
			copy(dry.Channel(ch)[:b], work.Channel(ch)[:b])
		}

		pl.Process(work.Data(), events)

		for ch := 0; ch < proc; ch++ {
			wet := work.Channel(ch)
			d := dry.Channel(ch)
			for i := 0; i < b; i++ {
				diff := wet[i] - d[i]
				drySumSquares += float64(d[i]) * float64(d[i])
				diffSumSquares += float64(diff) * float64(diff)
				if diff < 0 {
					diff = -diff
				}
				if diff > maxAbsDiff {
					maxAbsDiff = diff
				}
			}
		}
		totalSamples += int64(proc) * int64(b)

		if err := sink.Write(work.Data()[:proc], b); err != nil {
			sink.Discard()
			return stats, fmt.Errorf("%w: %s", ErrWriteFailed, err)
		}

		position += int64(b)
	}

	if err := sink.Finalize(); err != nil {
		return stats, fmt.Errorf("%w: %s", ErrFinalizeFailed, err)
	}

	if totalSamples > 0 {
		stats.InputRMSDB = GainToDB(rms(drySumSquares, totalSamples), DBFloor)
		stats.DiffRMSDB = GainToDB(rms(diffSumSquares, totalSamples), DBFloor)
		stats.MaxAbsDiff = maxAbsDiff
		stats.OutputChannels = proc
	}
	return stats, nil
}

// ProcessInterleaved feeds interleaved samples through the loaded plugin
// and returns the processed signal downmixed to mono by arithmetic mean,
// so that true-stereo plugins do not silently lose the side signal. The
// returned slice always has one element per input frame; on invalid
// arguments it is zero-filled and ErrInvalidArguments is reported.
func (p *Processor) ProcessInterleaved(input []float32, channels int, sampleRate float64) ([]float32, error) {
	frames := 0
	if channels > 0 {
		frames = len(input) / channels
	}
	output := make([]float32, frames)

	pl := p.host.Current()
	if pl == nil {
		return output, plugin.ErrNotLoaded
	}
	if len(input) == 0 || channels <= 0 || frames <= 0 || sampleRate <= 0 {
		return output, ErrInvalidArguments
	}

	blockSize := p.BlockSize()
	proc, bufChannels := channelPlan(pl, channels)

	release := preparePlugin(pl, proc, sampleRate, blockSize)
	defer release()

	work := NewBlock(bufChannels, blockSize)
	events := make([]midi.Message, 0)

	for position := 0; position < frames; {
		b := blockSize
		if rem := frames - position; rem < b {
			b = rem
		}

		work.Clear()
		for ch := 0; ch < channels; ch++ {
			dst := work.Channel(ch)
			for i := 0; i < b; i++ {
				dst[i] = input[(position+i)*channels+ch]
			}
		}

		if channels == 1 && proc == 2 {
			copy(work.Channel(1)[:b], work.Channel(0)[:b])
		}

		pl.Process(work.Data(), events)

		out := output[position : position+b]
		copy(out, work.Channel(0)[:b])
		if proc > 1 {
			for ch := 1; ch < proc; ch++ {
				src := work.Channel(ch)
				for i := 0; i < b; i++ {
					out[i] += src[i]
				}
			}
			scale := 1 / float32(proc)
			for i := range out {
				out[i] *= scale
			}
		}

		position += b
	}

	return output, nil
}

// ProcessMono is ProcessInterleaved for a single-channel array.
func (p *Processor) ProcessMono(input []float32, sampleRate float64) ([]float32, error) {
	return p.ProcessInterleaved(input, 1, sampleRate)
}

func rms(sumSquares float64, n int64) float64 {
	return math.Sqrt(sumSquares / float64(n))
}
