package tools

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestToolError_Error(t *testing.T) {
	err := InstallerError("go", "go1.22.1", "install", errors.New("exit status 2"))
	msg := err.Error()
	for _, want := range []string{"go", "go1.22.1", "install", "installer failed", "exit status 2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in error message %q", want, msg)
		}
	}

	noVersion := NetworkError("node", "", "fetch latest", errors.New("HTTP 503"))
	if strings.Contains(noVersion.Error(), "  ") {
		t.Errorf("Unexpected double space in %q", noVersion.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 0},
		{"not found", NotFoundError("node", "nvm", errors.New("nvm missing")), KindNotFound},
		{"execution", ExecutionError("java", "check", errors.New("exit 1")), KindExecutionFailed},
		{"network", NetworkError("go", "", "fetch latest", errors.New("timeout")), KindNetwork},
		{"version", VersionNotFoundError("go", errors.New("no stable")), KindVersionNotFound},
		{"platform", UnsupportedPlatformError("go", "install", "unknown"), KindUnsupportedPlatform},
		{"installer", InstallerError("go", "1", "install", errors.New("x")), KindInstallerFailed},
		{"path", PathNotFoundError("go", []string{"/usr/local/go"}), KindPathNotFound},
		{"wrapped", fmt.Errorf("dispatch: %w", PathNotFoundError("go", nil)), KindPathNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if WrapError("go", "", "install", KindInstallerFailed, nil) != nil {
		t.Error("WrapError(nil) should be nil")
	}

	original := NetworkError("go", "", "download", errors.New("refused"))
	if got := WrapError("go", "", "install", KindInstallerFailed, original); got != original {
		t.Error("WrapError should keep an existing ToolError")
	}

	wrapped := WrapError("go", "", "install", KindInstallerFailed, errors.New("boom"))
	if !IsKind(wrapped, KindInstallerFailed) {
		t.Errorf("Expected installer kind, got %v", KindOf(wrapped))
	}
	if !errors.Is(wrapped, errors.Unwrap(wrapped)) {
		t.Error("Unwrap should expose the underlying error")
	}
}
