// Package lineio provides the line-framing primitives shared by every
// stage that turns a byte stream into discrete lines (or back): trailing
// CR stripping and BOM handling on read, platform-newline framing and
// unconditional termination on write. Generalized from scanner.go's
// readHeaders, which does this exact CR/BOM dance but only for the CSV
// header line; here it applies to every line in the file.
package lineio

import (
	"bufio"
	"io"
)

var bomBytes = [3]byte{0xEF, 0xBB, 0xBF}

// StripBOM discards a leading UTF-8 byte-order mark from r, if present.
// Must be called before the first ReadLine on a freshly opened reader.
func StripBOM(r *bufio.Reader) error {
	peek, err := r.Peek(3)
	if err != nil {
		// Fewer than 3 bytes total (or empty file): nothing to strip,
		// and not an error condition at this layer.
		return nil
	}
	if peek[0] == bomBytes[0] && peek[1] == bomBytes[1] && peek[2] == bomBytes[2] {
		_, err := r.Discard(3)
		return err
	}
	return nil
}

// ReadLine reads one line from r, stripping a trailing CR that precedes
// the LF. The returned line never includes the terminator. eof reports
// whether this was the final, possibly-unterminated line of the stream;
// when eof is true and len(line) == 0, the stream was exhausted and there
// is no line to process.
func ReadLine(r *bufio.Reader) (line []byte, eof bool, err error) {
	raw, err := r.ReadBytes('\n')
	if err != nil {
		if err != io.EOF {
			return nil, false, err
		}
		if len(raw) == 0 {
			return nil, true, nil
		}
		return trimCR(raw), true, nil
	}
	// Drop the trailing LF itself before checking for a CR.
	raw = raw[:len(raw)-1]
	return trimCR(raw), false, nil
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}
