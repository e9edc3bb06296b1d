package tools

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in       int64
		expected string
	}{
		{512, "512B"},
		{2048, "2.0KB"},
		{5 * 1024 * 1024, "5.0MB"},
		{3 * 1024 * 1024 * 1024, "3.0GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.expected {
			t.Errorf("formatBytes(%d) = %s, expected %s", tt.in, got, tt.expected)
		}
	}
}

func TestProgressWriter(t *testing.T) {
	var dest, out bytes.Buffer
	pw := newProgressWriter(&dest, 200, "go.tar.gz", &out)
	clock := time.Unix(0, 0)
	pw.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	if _, err := pw.Write(make([]byte, 100)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if dest.Len() != 100 {
		t.Errorf("Expected 100 bytes forwarded, got %d", dest.Len())
	}
	if !strings.Contains(out.String(), " 50%") {
		t.Errorf("Expected 50%% progress, got %q", out.String())
	}

	pw.Finish()
	if !strings.HasSuffix(out.String(), "\r") {
		t.Error("Finish should return the cursor to the start of the line")
	}
}

func TestProgressWriter_UnknownTotal(t *testing.T) {
	var dest, out bytes.Buffer
	pw := newProgressWriter(&dest, -1, "node.tar.gz", &out)
	pw.now = func() time.Time { return time.Unix(10, 0) }

	pw.Write(make([]byte, 2048))
	if !strings.Contains(out.String(), "2.0KB") {
		t.Errorf("Expected byte count, got %q", out.String())
	}
}

func TestIsTerminalWriter(t *testing.T) {
	if isTerminalWriter(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}
