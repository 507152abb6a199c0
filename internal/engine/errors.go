// SPDX-License-Identifier: MIT
package engine

import "errors"

// Errors surfaced by the offline processing engine. Every error
// terminates the current run; the plugin teardown still happens on all
// exit paths.
var (
	// ErrUnreadableSource means the audio decoder refused the input.
	ErrUnreadableSource = errors.New("unreadable audio source")

	// ErrInvalidArguments means the array path was called with a nil
	// input, a non-positive channel count or a non-positive sample rate.
	ErrInvalidArguments = errors.New("invalid array input arguments")

	// ErrSinkOpen means the temporary output stream or the WAV writer
	// could not be created.
	ErrSinkOpen = errors.New("cannot create output stream")

	// ErrWriteFailed means a block could not be written to the sink.
	// The target file is left untouched.
	ErrWriteFailed = errors.New("writing output failed")

	// ErrFinalizeFailed means the completed temporary file could not
	// replace the target.
	ErrFinalizeFailed = errors.New("finalizing output failed")

	// ErrCancelled means the caller cancelled the run between blocks.
	ErrCancelled = errors.New("processing cancelled")
)
