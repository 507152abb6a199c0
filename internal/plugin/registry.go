// SPDX-License-Identifier: MIT
package plugin

// Format discovers plugin types at filesystem paths and constructs
// instances of them. Formats are probed in registration order; the first
// format reporting any type at a path wins.
type Format interface {
	// Name is the format's display name, stored in Descriptors.
	Name() string
	// FindTypes enumerates the plugin types found at path. An empty
	// slice (with or without an error) means the path is not this
	// format's to handle.
	FindTypes(path string) ([]Descriptor, error)
	// Create instantiates a previously discovered type at the given
	// sample rate and block size.
	Create(desc Descriptor, sampleRate float64, blockSize int) (Plugin, error)
}

// defaultFormats is populated by format init funcs (builtin always,
// VST2 when cgo is available).
var defaultFormats []func() Format

// Registry holds an ordered list of plugin formats.
type Registry struct {
	formats []Format
}

// NewRegistry creates a registry with all default formats registered.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, create := range defaultFormats {
		r.Register(create())
	}
	return r
}

// Register appends a format. Later registrations are probed after
// earlier ones.
func (r *Registry) Register(f Format) {
	r.formats = append(r.formats, f)
}

// Formats returns the registered formats in probe order.
func (r *Registry) Formats() []Format {
	return r.formats
}

// FindFirst resolves path to the first type of the first format that
// recognizes it. Single-entry bundles are the norm; multi-entry bundles
// resolve to their first entry, matching how DAW hosts treat
// single-entry plugin files.
func (r *Registry) FindFirst(path string) (Format, *Descriptor) {
	for _, f := range r.formats {
		types, err := f.FindTypes(path)
		if err != nil || len(types) == 0 {
			continue
		}
		desc := types[0]
		return f, &desc
	}
	return nil, nil
}
