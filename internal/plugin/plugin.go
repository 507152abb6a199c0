// SPDX-License-Identifier: MIT
/*
Package plugin defines the host-facing contract for audio effect plugins
and the machinery to discover and own them:
- Descriptor: immutable identification of a discovered plugin type
- Plugin: the minimal processing contract the offline engine drives
- Registry: ordered plugin formats, first recognized type wins
- Host: single-slot ownership of one loaded instance

Formats register themselves; the builtin format is always present and the
VST2 format joins when cgo is available.
*/
package plugin

import (
	"errors"

	"gitlab.com/gomidi/midi/v2"
)

// Errors surfaced by plugin discovery and loading.
var (
	// ErrNoPluginType means no registered format recognized a loadable
	// plugin type at the given path.
	ErrNoPluginType = errors.New("no loadable plugin type recognized")

	// ErrNotLoaded means an operation requiring a plugin ran with an
	// empty host slot.
	ErrNotLoaded = errors.New("no plugin loaded")

	// ErrNoEditor means the plugin does not provide a graphical editor.
	ErrNoEditor = errors.New("plugin has no editor")
)

// Descriptor identifies a discovered plugin type. It is produced by a
// Format during discovery and never mutated afterwards.
type Descriptor struct {
	Name    string // Display name
	Format  string // Producing format, e.g. "Builtin" or "VST2"
	UID     string // Unique identifier within the format (usually the path)
	Inputs  int    // Declared input channel count
	Outputs int    // Declared output channel count
}

// Plugin is the contract the offline engine drives a loaded instance
// through. Channel data is planar float32; each channel slice spans the
// full block width agreed at Prepare time. The events slice carries MIDI
// for the block and is empty in this host.
//
// Lifecycle per processing run: SetNonRealtime(true), SetBusLayout,
// Prepare, Reset, SuspendProcessing(false), N x Process, Release,
// SetNonRealtime(false). Process is only ever called between Prepare and
// Release, from a single goroutine.
type Plugin interface {
	// InputChannels reports the declared input channel count.
	InputChannels() int
	// OutputChannels reports the declared output channel count.
	OutputChannels() int

	// HasEditor reports whether CreateEditor can succeed.
	HasEditor() bool
	// CreateEditor builds the plugin's own control surface.
	// Returns ErrNoEditor when the plugin has none.
	CreateEditor() (Editor, error)

	// SetNonRealtime tells the plugin it is driven faster than wall
	// clock. Mandatory before offline block streaming.
	SetNonRealtime(nonRealtime bool)
	// SetBusLayout requests a symmetric channel layout before Prepare.
	// Plugins that cannot honor the layout keep their previous one.
	SetBusLayout(inputs, outputs int, sampleRate float64, blockSize int)
	// Prepare allocates processing state for the given rate and maximum
	// block size.
	Prepare(sampleRate float64, blockSize int)
	// Reset clears processing state (delay lines, envelopes) without
	// releasing resources.
	Reset()
	// SuspendProcessing pauses or resumes the processing callback.
	SuspendProcessing(suspend bool)
	// Process transforms one block in place. buf holds at least
	// max(inputs, outputs) channels of blockSize samples each.
	Process(buf [][]float32, events []midi.Message)
	// Release frees processing state. Safe to call repeatedly.
	Release()
}

// Editor is a plugin's own graphical control surface hosted in a child
// window. Opening and closing it is independent of processing as long as
// only one of UI and worker touches the plugin at a time.
type Editor interface {
	Open() error
	Close()
}
