// Package cliutil provides output helpers shared by the restgen commands.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// FormatBytes renders a byte count with binary units, e.g. "1.5 KiB".
func FormatBytes(size int64) string {
	if size < 0 {
		return fmt.Sprintf("%d B", size)
	}
	return humanize.IBytes(uint64(size)) //nolint:gosec // G115: size checked non-negative above
}
