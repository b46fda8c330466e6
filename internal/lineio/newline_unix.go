//go:build !windows

package lineio

// Newline is the platform default line terminator used when writing output.
const Newline = "\n"
