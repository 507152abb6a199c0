// SPDX-License-Identifier: MIT

//go:build cgo

package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"pipelined.dev/audio/vst2"
	"pipelined.dev/signal"
)

func init() {
	defaultFormats = append(defaultFormats, func() Format { return vst2Format{} })
}

// vst2Format loads VST2 shared libraries through pipelined.dev/audio/vst2.
// VST2 effects do not publish channel counts up front; the classic effect
// default of stereo in/out is assumed and narrowed via the speaker
// arrangement when the engine requests a mono bus.
type vst2Format struct{}

func (vst2Format) Name() string { return "VST2" }

func vst2Extension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dll", ".so", ".vst", ".dylib":
		return true
	}
	return false
}

func (vst2Format) FindTypes(path string) ([]Descriptor, error) {
	if !vst2Extension(path) {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	// Probe by actually opening the library; anything that does not
	// expose a VST2 entry point is not a type of ours.
	lib, err := vst2.Open(path)
	if err != nil {
		return nil, nil
	}
	name := lib.Name
	lib.Close()

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return []Descriptor{{
		Name:    name,
		Format:  "VST2",
		UID:     path,
		Inputs:  2,
		Outputs: 2,
	}}, nil
}

func (vst2Format) Create(desc Descriptor, sampleRate float64, blockSize int) (Plugin, error) {
	lib, err := vst2.Open(desc.UID)
	if err != nil {
		return nil, fmt.Errorf("opening VST2 library: %w", err)
	}

	instance := lib.Plugin(func(opcode vst2.HostOpcode, index vst2.Index, value vst2.Value, ptr vst2.Ptr, opt vst2.Opt) vst2.Return {
		return 0
	})
	if instance == nil {
		lib.Close()
		return nil, fmt.Errorf("VST2 library %q produced no plugin", desc.UID)
	}

	p := &vst2Plugin{lib: lib, plugin: instance, inputs: desc.Inputs, outputs: desc.Outputs}
	p.plugin.SetSampleRate(int(sampleRate))
	p.plugin.SetBufferSize(blockSize)
	return p, nil
}

// vst2Plugin adapts a vst2.Plugin to the host contract. Sample data
// crosses the cgo boundary through vst2.FloatBuffer via pipelined.dev/signal.
type vst2Plugin struct {
	lib    *vst2.VST
	plugin *vst2.Plugin

	inputs, outputs int
	blockSize       int
	running         bool

	in, out vst2.FloatBuffer
	scratch signal.Float32
}

func (p *vst2Plugin) InputChannels() int  { return p.inputs }
func (p *vst2Plugin) OutputChannels() int { return p.outputs }

// Editor embedding needs a native parent window (EffEditOpen takes a
// platform handle); this host does not provide one.
func (p *vst2Plugin) HasEditor() bool { return false }

func (p *vst2Plugin) CreateEditor() (Editor, error) { return nil, ErrNoEditor }

func (p *vst2Plugin) SetNonRealtime(nonRealtime bool) {
	// VST2 has no dedicated offline flag; suspension around the run
	// gives plugins their state boundary instead.
}

func speakerArrangement(channels int) *vst2.SpeakerArrangement {
	arr := vst2.SpeakerArrangement{NumChannels: int32(channels)}
	switch channels {
	case 1:
		arr.Type = vst2.SpeakerArrMono
	default:
		arr.Type = vst2.SpeakerArrStereo
	}
	return &arr
}

func (p *vst2Plugin) SetBusLayout(inputs, outputs int, sampleRate float64, blockSize int) {
	p.plugin.SetSpeakerArrangement(speakerArrangement(inputs), speakerArrangement(outputs))
	p.inputs = inputs
	p.outputs = outputs
	p.plugin.SetSampleRate(int(sampleRate))
	p.plugin.SetBufferSize(blockSize)
}

func (p *vst2Plugin) Prepare(sampleRate float64, blockSize int) {
	p.plugin.SetSampleRate(int(sampleRate))
	p.plugin.SetBufferSize(blockSize)

	channels := p.inputs
	if p.outputs > channels {
		channels = p.outputs
	}
	p.blockSize = blockSize
	p.in = vst2.NewFloatBuffer(channels, blockSize)
	p.out = vst2.NewFloatBuffer(channels, blockSize)
	p.scratch = signal.Allocator{
		Channels: channels,
		Length:   blockSize,
		Capacity: blockSize,
	}.Float32()

	p.plugin.Start()
	p.running = true
}

func (p *vst2Plugin) Reset() {
	if p.running {
		p.plugin.Suspend()
		p.plugin.Resume()
	}
}

func (p *vst2Plugin) SuspendProcessing(suspend bool) {
	if !p.running {
		return
	}
	if suspend {
		p.plugin.Suspend()
	} else {
		p.plugin.Resume()
	}
}

func (p *vst2Plugin) Process(buf [][]float32, events []midi.Message) {
	if !p.running {
		return
	}

	channels := p.scratch.Channels()
	if len(buf) < channels {
		channels = len(buf)
	}

	for ch := 0; ch < channels; ch++ {
		src := buf[ch]
		for i := 0; i < p.blockSize && i < len(src); i++ {
			p.scratch.SetSample(p.scratch.BufferIndex(ch, i), float64(src[i]))
		}
	}
	p.in.CopyFrom(p.scratch)

	p.plugin.ProcessFloat(p.in, p.out)

	p.out.CopyTo(p.scratch)
	for ch := 0; ch < channels; ch++ {
		dst := buf[ch]
		for i := 0; i < p.blockSize && i < len(dst); i++ {
			dst[i] = float32(p.scratch.Sample(p.scratch.BufferIndex(ch, i)))
		}
	}
}

func (p *vst2Plugin) Release() {
	if p.running {
		p.plugin.Suspend()
		p.running = false
	}
	if p.plugin != nil {
		p.plugin.Close()
		p.plugin = nil
	}
	if p.lib != nil {
		p.lib.Close()
		p.lib = nil
	}
}
