package tools

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// IsTerminalFunc reports whether a file descriptor is a terminal.
// It can be overridden for testing.
var IsTerminalFunc = term.IsTerminal

// isTerminalWriter reports whether w is a terminal-backed *os.File
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminalFunc(int(f.Fd()))
}

// progressWriter counts bytes written through it and redraws a one-line
// progress bar at most ten times per second.
type progressWriter struct {
	dest      io.Writer
	output    io.Writer
	label     string
	total     int64
	written   int64
	lastPrint time.Time
	now       func() time.Time
}

func newProgressWriter(dest io.Writer, total int64, label string, output io.Writer) *progressWriter {
	return &progressWriter{
		dest:   dest,
		output: output,
		label:  label,
		total:  total,
		now:    time.Now,
	}
}

// Write implements io.Writer
func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.dest.Write(p)
	if n > 0 {
		pw.written += int64(n)
		if now := pw.now(); now.Sub(pw.lastPrint) >= 100*time.Millisecond {
			pw.lastPrint = now
			fmt.Fprint(pw.output, pw.line())
		}
	}
	return n, err
}

// Finish clears the progress line
func (pw *progressWriter) Finish() {
	fmt.Fprintf(pw.output, "\r%s\r", strings.Repeat(" ", 80))
}

func (pw *progressWriter) line() string {
	if pw.total <= 0 {
		return fmt.Sprintf("\r  📥 %s %s", pw.label, formatBytes(pw.written))
	}

	percent := float64(pw.written) / float64(pw.total) * 100
	if percent > 100 {
		percent = 100
	}
	const width = 30
	filled := int(percent / 100 * width)
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
	return fmt.Sprintf("\r  📥 %s [%s] %3.0f%% (%s/%s)", pw.label, bar, percent,
		formatBytes(pw.written), formatBytes(pw.total))
}

// formatBytes formats bytes into human-readable format
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case b >= GB:
		return fmt.Sprintf("%.1fGB", float64(b)/GB)
	case b >= MB:
		return fmt.Sprintf("%.1fMB", float64(b)/MB)
	case b >= KB:
		return fmt.Sprintf("%.1fKB", float64(b)/KB)
	default:
		return fmt.Sprintf("%dB", b)
	}
}
