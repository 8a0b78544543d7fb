// Package holoerr defines the four error kinds from the propagation policy:
// bad input, wire/chunk format errors, transport errors, and partial-data
// refusals. Call sites wrap a sentinel with fmt.Errorf("...: %w", Err...)
// and branch on kind with errors.Is.
package holoerr

import "errors"

var (
	// ErrBadInput covers a missing/empty source file, or a WAV file whose
	// sample width isn't 16 or 24 bits.
	ErrBadInput = errors.New("bad input")

	// ErrFormat covers an unknown chunk magic, unsupported version, or a
	// header-parameter mismatch between chunks of one transfer.
	ErrFormat = errors.New("format error")

	// ErrTransport covers a malformed UDP datagram. Per policy the
	// receiver never returns this to a caller; it drops the datagram
	// silently.
	ErrTransport = errors.New("transport error")

	// ErrPartialData is returned by strict-mode decode when fewer than N
	// chunks are present.
	ErrPartialData = errors.New("partial data")
)
