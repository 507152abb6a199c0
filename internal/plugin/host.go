// SPDX-License-Identifier: MIT
package plugin

import (
	"fmt"
	"sync"
)

// Host owns at most one loaded plugin instance and its descriptor.
// Loading a new plugin releases the previous one first. The instance is
// shared between the UI (editor access) and the processing worker, but
// only one of them touches it at a time.
type Host struct {
	mu       sync.Mutex
	registry *Registry
	instance Plugin
	desc     *Descriptor
}

// NewHost creates an empty host backed by the given format registry.
func NewHost(registry *Registry) *Host {
	return &Host{registry: registry}
}

// Load resolves path through the format registry and instantiates the
// first discovered type at the given sample rate and block size. A
// previously loaded plugin is released before the new one is resolved.
// Returns ErrNoPluginType when no format recognizes the path, or a
// wrapped instantiation error when construction fails.
func (h *Host) Load(path string, sampleRate float64, blockSize int) error {
	h.Unload()

	format, desc := h.registry.FindFirst(path)
	if desc == nil {
		return fmt.Errorf("%w at %q", ErrNoPluginType, path)
	}

	instance, err := format.Create(*desc, sampleRate, blockSize)
	if err != nil {
		return fmt.Errorf("plugin instantiation failed: %w", err)
	}

	h.mu.Lock()
	h.instance = instance
	h.desc = desc
	h.mu.Unlock()

	return nil
}

// Unload releases the loaded plugin's resources and empties the slot.
// Always safe, including on an empty host.
func (h *Host) Unload() {
	h.mu.Lock()
	instance := h.instance
	h.instance = nil
	h.desc = nil
	h.mu.Unlock()

	if instance != nil {
		instance.Release()
	}
}

// Current returns the loaded plugin, or nil when the slot is empty.
func (h *Host) Current() Plugin {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.instance
}

// Descriptor returns the loaded plugin's descriptor, or nil when the
// slot is empty.
func (h *Host) Descriptor() *Descriptor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.desc
}
