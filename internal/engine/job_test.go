// SPDX-License-Identifier: MIT
package engine

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"vsthost/internal/plugin"
)

func writeTestWAV(t *testing.T, path string, frames int) {
	t.Helper()
	sink, err := newWAVSink(path, int(testSampleRate), 1, frames)
	if err != nil {
		t.Fatalf("creating test WAV: %v", err)
	}
	data := make([]float32, frames)
	for i := range data {
		data[i] = float32(i%100) / 200
	}
	if err := sink.Write([][]float32{data}, frames); err != nil {
		t.Fatalf("writing test WAV: %v", err)
	}
	if err := sink.Finalize(); err != nil {
		t.Fatalf("finalizing test WAV: %v", err)
	}
}

func TestJobCompletes(t *testing.T) {
	stub := &stubPlugin{ins: 1, outs: 1, factor: 1}
	proc, _ := newTestProcessor(t, stub)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")
	writeTestWAV(t, inPath, 4096)

	job := NewJob(proc, inPath, outPath)
	job.Start()

	result := job.Wait()
	if !result.OK {
		t.Fatalf("job failed: %v", result.Err)
	}
	if job.Cancelled() {
		t.Error("completed job must not report cancellation")
	}
	if result.Stats.OutputChannels != 1 {
		t.Errorf("stats channels: got %d, want 1", result.Stats.OutputChannels)
	}
	if _, err := OpenWAVFile(outPath); err != nil {
		t.Errorf("job output should decode: %v", err)
	}
}

func TestJobReportsFailure(t *testing.T) {
	stub := &stubPlugin{ins: 1, outs: 1, factor: 1}
	proc, _ := newTestProcessor(t, stub)

	dir := t.TempDir()
	job := NewJob(proc, filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.wav"))
	job.Start()

	result := job.Wait()
	if result.OK {
		t.Fatal("job on a missing input must fail")
	}
	if result.Err == nil {
		t.Fatal("failed job must carry its error")
	}
}

// gatedPlugin parks the first Process call until the test releases it,
// pinning the worker inside a block while cancellation is requested.
type gatedPlugin struct {
	stubPlugin
	entered chan struct{}
	resume  chan struct{}
	once    sync.Once
}

func (p *gatedPlugin) Process(buf [][]float32, events []midi.Message) {
	p.once.Do(func() {
		close(p.entered)
		<-p.resume
	})
	p.stubPlugin.Process(buf, events)
}

type gatedFormat struct{ p *gatedPlugin }

func (f gatedFormat) Name() string { return "Gated" }

func (f gatedFormat) FindTypes(path string) ([]plugin.Descriptor, error) {
	if !strings.HasPrefix(path, "gated:") {
		return nil, nil
	}
	return []plugin.Descriptor{{Name: "Gated", Format: "Gated", UID: path, Inputs: 1, Outputs: 1}}, nil
}

func (f gatedFormat) Create(plugin.Descriptor, float64, int) (plugin.Plugin, error) {
	return f.p, nil
}

func TestJobCancelMidRun(t *testing.T) {
	gated := &gatedPlugin{
		stubPlugin: stubPlugin{ins: 1, outs: 1, factor: 1},
		entered:    make(chan struct{}),
		resume:     make(chan struct{}),
	}
	registry := &plugin.Registry{}
	registry.Register(gatedFormat{p: gated})
	host := plugin.NewHost(registry)
	if err := host.Load("gated:test", testSampleRate, 64); err != nil {
		t.Fatalf("loading gated plugin: %v", err)
	}
	proc := New(host)
	proc.SetBlockSize(64)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")
	writeTestWAV(t, inPath, 4096)

	job := NewJob(proc, inPath, outPath)
	job.Start()

	select {
	case <-gated.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("worker never reached the plugin")
	}
	job.Cancel()
	close(gated.resume)

	result := job.Wait()
	if result.OK {
		t.Fatal("cancelled job must not report success")
	}
	if !job.Cancelled() {
		t.Fatalf("expected cancellation, got %v", result.Err)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("cancelled job must not leave an output file")
	}
}

func TestJobCancelAfterCompletionIsSafe(t *testing.T) {
	stub := &stubPlugin{ins: 1, outs: 1, factor: 1}
	proc, _ := newTestProcessor(t, stub)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	writeTestWAV(t, inPath, 256)

	job := NewJob(proc, inPath, filepath.Join(dir, "out.wav"))
	job.Start()
	job.Wait()
	job.Cancel() // must not panic or flip the result

	if job.Cancelled() {
		t.Error("late cancel must not retroactively mark the job cancelled")
	}
}
