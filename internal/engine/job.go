// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"errors"
)

// JobResult reports a finished run: OK with statistics, or the error
// that terminated it.
type JobResult struct {
	OK    bool
	Err   error
	Stats Stats
}

// Job is a cancellable background run of a file-to-file processing call.
// Progress is indeterminate, so the job only reports completion, not
// ticks. Cancellation is cooperative: the worker notices it at the next
// block boundary, discards the partial output and reports ErrCancelled.
//
// At most one job may run at a time; the caller must not touch the
// processor or the plugin host while a job is in flight.
type Job struct {
	processor *Processor
	inPath    string
	outPath   string

	cancel context.CancelFunc
	ctx    context.Context
	done   chan struct{}
	result JobResult
}

// NewJob prepares a run of inPath through the processor into outPath.
func NewJob(processor *Processor, inPath, outPath string) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	return &Job{
		processor: processor,
		inPath:    inPath,
		outPath:   outPath,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start launches the worker goroutine. It must be called exactly once.
func (j *Job) Start() {
	go func() {
		defer close(j.done)
		stats, err := j.processor.ProcessFilePath(j.ctx, j.inPath, j.outPath)
		j.result = JobResult{OK: err == nil, Err: err, Stats: stats}
	}()
}

// Cancel requests cooperative cancellation. Safe to call at any time,
// including after completion.
func (j *Job) Cancel() { j.cancel() }

// Done is closed when the worker has finished and the result is valid.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until completion and returns the result.
func (j *Job) Wait() JobResult {
	<-j.done
	return j.result
}

// Cancelled reports whether the job ended due to cancellation. Only
// meaningful after Done.
func (j *Job) Cancelled() bool {
	return errors.Is(j.result.Err, ErrCancelled)
}
