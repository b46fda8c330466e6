//go:build amd64

package linescan

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

const (
	lowBits64      = 0x0101010101010101
	highBits64     = 0x8080808080808080
	newlineWord64  = 0x0A0A0A0A0A0A0A0A
)

func init() {
	if cpu.X86.HasAVX2 {
		scanImpl = scanSWAR32
	} else {
		scanImpl = scanSWAR8
	}
}

// hasNewlineByte returns a non-zero value with the matching byte's top bit
// set if w contains a 0x0A byte; classic SWAR "find the zero byte" trick
// applied to w XOR a repeated 0x0A pattern.
func hasNewlineByte(w uint64) uint64 {
	x := w ^ newlineWord64
	return (x - lowBits64) & ^x & highBits64
}

// scanSWAR8 processes data eight bytes per iteration. This is the fallback
// path used on hosts without AVX2, and the tail-handling path for scanSWAR32.
func scanSWAR8(data []byte) int {
	n := len(data)
	i := 0
	for ; i+8 <= n; i += 8 {
		w := binary.LittleEndian.Uint64(data[i : i+8])
		if has := hasNewlineByte(w); has != 0 {
			return i + bits.TrailingZeros64(has)/8
		}
	}
	for ; i < n; i++ {
		if data[i] == '\n' {
			return i
		}
	}
	return -1
}

// scanSWAR32 processes data 32 bytes (four words) per iteration on hosts
// capable of AVX2, computing all four "has newline" masks independently
// before branching so the compiler can interleave the arithmetic, then
// resolving them in left-to-right order to preserve IndexNewline's
// leftmost-match contract. This approximates the wider-register throughput
// of the teacher's AVX2 kernel (internal/simd's scanAVX2) in pure Go, since
// the hand-written assembly it dispatches to was not part of the retrieval
// pack.
func scanSWAR32(data []byte) int {
	n := len(data)
	i := 0
	for ; i+32 <= n; i += 32 {
		w0 := binary.LittleEndian.Uint64(data[i : i+8])
		w1 := binary.LittleEndian.Uint64(data[i+8 : i+16])
		w2 := binary.LittleEndian.Uint64(data[i+16 : i+24])
		w3 := binary.LittleEndian.Uint64(data[i+24 : i+32])

		h0 := hasNewlineByte(w0)
		h1 := hasNewlineByte(w1)
		h2 := hasNewlineByte(w2)
		h3 := hasNewlineByte(w3)

		if h0 != 0 {
			return i + bits.TrailingZeros64(h0)/8
		}
		if h1 != 0 {
			return i + 8 + bits.TrailingZeros64(h1)/8
		}
		if h2 != 0 {
			return i + 16 + bits.TrailingZeros64(h2)/8
		}
		if h3 != 0 {
			return i + 24 + bits.TrailingZeros64(h3)/8
		}
	}
	if tail := scanSWAR8(data[i:]); tail != -1 {
		return i + tail
	}
	return -1
}
