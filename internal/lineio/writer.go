package lineio

import "io"

// WriteLine writes line followed by the platform newline terminator.
// Every line written through this path is terminated, including one that
// was the unterminated last line of the original input (spec §6).
func WriteLine(w io.Writer, line []byte) error {
	if _, err := w.Write(line); err != nil {
		return err
	}
	_, err := io.WriteString(w, Newline)
	return err
}
