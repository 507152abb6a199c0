// SPDX-License-Identifier: MIT
package plugin

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"
)

// Scheme prefix for builtin processor paths, e.g. "builtin:gain?db=6".
const builtinScheme = "builtin:"

func init() {
	defaultFormats = append(defaultFormats, func() Format { return builtinFormat{} })
}

// builtinFormat resolves builtin: paths to internal processors. It gives
// the host something loadable without a native plugin bundle on disk and
// backs the end-to-end tests.
type builtinFormat struct{}

func (builtinFormat) Name() string { return "Builtin" }

func (builtinFormat) FindTypes(path string) ([]Descriptor, error) {
	if !strings.HasPrefix(path, builtinScheme) {
		return nil, nil
	}

	p, err := newBuiltin(path)
	if err != nil {
		return nil, nil
	}

	return []Descriptor{{
		Name:    p.name,
		Format:  "Builtin",
		UID:     path,
		Inputs:  p.inputs,
		Outputs: p.outputs,
	}}, nil
}

func (builtinFormat) Create(desc Descriptor, sampleRate float64, blockSize int) (Plugin, error) {
	return newBuiltin(desc.UID)
}

// newBuiltin parses a builtin: path into a processor. Every builtin is a
// stereo in-place scaler; identity, gain and invert differ only in the
// applied factor.
func newBuiltin(path string) (*builtinPlugin, error) {
	spec := strings.TrimPrefix(path, builtinScheme)
	kind, query, _ := strings.Cut(spec, "?")

	p := &builtinPlugin{inputs: 2, outputs: 2, factor: 1}

	switch kind {
	case "identity":
		p.name = "Identity"
	case "invert":
		p.name = "Invert"
		p.factor = -1
	case "gain":
		db := 6.0
		if values, err := url.ParseQuery(query); err == nil {
			if s := values.Get("db"); s != "" {
				if v, err := strconv.ParseFloat(s, 64); err == nil {
					db = v
				}
			}
		}
		p.name = fmt.Sprintf("Gain %+.1f dB", db)
		p.factor = float32(math.Pow(10, db/20))
	default:
		return nil, fmt.Errorf("unknown builtin processor %q", kind)
	}

	return p, nil
}

// builtinPlugin is an internal effect processor satisfying the Plugin
// contract. It has no editor and ignores MIDI.
type builtinPlugin struct {
	name            string
	inputs, outputs int
	factor          float32

	sampleRate  float64
	blockSize   int
	prepared    bool
	suspended   bool
	nonRealtime bool
}

func (p *builtinPlugin) InputChannels() int  { return p.inputs }
func (p *builtinPlugin) OutputChannels() int { return p.outputs }

func (p *builtinPlugin) HasEditor() bool { return false }

func (p *builtinPlugin) CreateEditor() (Editor, error) { return nil, ErrNoEditor }

func (p *builtinPlugin) SetNonRealtime(nonRealtime bool) { p.nonRealtime = nonRealtime }

func (p *builtinPlugin) SetBusLayout(inputs, outputs int, sampleRate float64, blockSize int) {
	// Builtins follow any symmetric layout the engine asks for.
	if inputs > 0 && inputs == outputs {
		p.inputs = inputs
		p.outputs = outputs
	}
}

func (p *builtinPlugin) Prepare(sampleRate float64, blockSize int) {
	p.sampleRate = sampleRate
	p.blockSize = blockSize
	p.prepared = true
}

func (p *builtinPlugin) Reset() {}

func (p *builtinPlugin) SuspendProcessing(suspend bool) { p.suspended = suspend }

func (p *builtinPlugin) Process(buf [][]float32, events []midi.Message) {
	if p.suspended || p.factor == 1 {
		return
	}
	for _, ch := range buf {
		for i := range ch {
			ch[i] *= p.factor
		}
	}
}

func (p *builtinPlugin) Release() { p.prepared = false }
