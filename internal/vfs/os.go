package vfs

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// OS is the os-backed FS implementation used outside of tests.
type OS struct{}

var _ FS = OS{}

func (OS) OpenRead(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func (OS) OpenWrite(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

func (OS) Delete(path string) {
	_ = os.Remove(path)
}

func (OS) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func (OS) RemoveAll(dir string) {
	_ = os.RemoveAll(dir)
}

func (OS) Size(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}

// Move renames src to dst, falling back to copy+delete whenever the
// rename fails. os.Rename reports every failure as a *LinkError, so the
// fallback runs for a cross-filesystem rename (syscall.EXDEV) and for any
// other rename error alike.
func (OS) Move(src, dst string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("move %s -> %s: destination exists", src, dst)
		}
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if !isCrossDevice(err) {
		return fmt.Errorf("move %s -> %s: %w", src, dst, err)
	}

	return copyAndDelete(src, dst)
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr)
}

func copyAndDelete(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".moving"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Remove(src)
}
