// Package linekey parses the "N. text" line grammar into a comparable key
// and defines the total order the rest of the sort engine sorts against.
package linekey

import "strconv"

// Key is an immutable view over a line: a parsed numeric prefix plus the
// byte range of the "text" portion. Data is borrowed from the caller's
// line buffer and must not outlive it.
type Key struct {
	Number    int64
	TextStart uint32
	TextLen   uint32
	Data      []byte // the full line this key was parsed from
}

// Text returns the text portion of the line the key was parsed from.
func (k Key) Text() []byte {
	return k.Data[k.TextStart : k.TextStart+k.TextLen]
}

// Parse extracts a Key from a single line (no trailing newline). The dot
// separator and leading spaces after it are optional; a line with no '.'
// is treated as having Number 0 and the whole line as text.
func Parse(line []byte) Key {
	p := -1
	for i, b := range line {
		if b == '.' {
			p = i
			break
		}
	}

	if p <= 0 {
		return Key{Number: 0, TextStart: 0, TextLen: uint32(len(line)), Data: line}
	}

	number := parseNumber(line[:p])

	start := p + 1
	for start < len(line) && line[start] == ' ' {
		start++
	}

	return Key{
		Number:    number,
		TextStart: uint32(start),
		TextLen:   uint32(len(line) - start),
		Data:      line,
	}
}

// parseNumber implements the fallback chain from spec §4.1: signed decimal,
// then unsigned 32-bit decimal on overflow, else 0.
func parseNumber(b []byte) int64 {
	if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		return n
	}
	if n, err := strconv.ParseUint(string(b), 10, 32); err == nil {
		return int64(n)
	}
	return 0
}
