// Package linescan finds newline positions within a buffered read chunk.
// It mirrors the teacher's internal/simd package: a function-variable
// dispatch set once at init() time based on CPU capability, rather than a
// branch re-evaluated on every call.
package linescan

import "bytes"

// IndexNewline returns the index of the first '\n' in data, or -1.
// scanImpl is swapped for a faster word-at-a-time implementation on amd64
// hosts that support it; see scan_amd64.go / scan_generic.go.
func IndexNewline(data []byte) int {
	return scanImpl(data)
}

var scanImpl func(data []byte) int

func scanGeneric(data []byte) int {
	return bytes.IndexByte(data, '\n')
}
