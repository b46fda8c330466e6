package pipeline

import (
	"crypto/sha1"
	"encoding/hex"
	"io"

	"github.com/bendreyea/Sorter/internal/vfs"
)

// Fingerprint samples the start, middle, and end of path and hashes them
// together, lifted from indexer.go's calculateFingerprint. It exists
// only to label the --summary run report for humans comparing runs; the
// pipeline always redoes the full sort regardless of fingerprint match
// (spec §7 forbids skipping work on a re-run). Routed through vfs.FS, like
// the pipeline's input, temp-file and output access, rather than opening
// path directly (Summary.WriteJSON is the one write that uses os).
func Fingerprint(fs vfs.FS, path string) (string, error) {
	size, err := fs.Size(path)
	if err != nil {
		return "", err
	}

	r, err := fs.OpenRead(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	const sampleSize = 512 * 1024
	buf := make([]byte, sampleSize)
	hasher := sha1.New()

	ra, canSeek := r.(io.ReaderAt)
	if !canSeek {
		n, _ := io.ReadFull(r, buf)
		hasher.Write(buf[:n])
		return hex.EncodeToString(hasher.Sum(nil)), nil
	}

	n, _ := ra.ReadAt(buf, 0)
	hasher.Write(buf[:n])

	if size > sampleSize*3 {
		n, _ = ra.ReadAt(buf, size/2-sampleSize/2)
		hasher.Write(buf[:n])
	}

	if size > sampleSize {
		start := size - sampleSize
		if start < 0 {
			start = 0
		}
		n, _ = ra.ReadAt(buf, start)
		hasher.Write(buf[:n])
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
