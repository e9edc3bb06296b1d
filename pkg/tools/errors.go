package tools

import (
	"errors"
	"fmt"
)

// ErrorKind classifies toolchain failures so callers can branch on the kind
// instead of matching messages.
type ErrorKind int

const (
	// KindNotFound means the executable is absent. Check reports it as a
	// state; it only surfaces as an error when an operation needs the tool.
	KindNotFound ErrorKind = iota + 1
	// KindExecutionFailed means the executable was found but errored when queried
	KindExecutionFailed
	// KindNetwork means release metadata or an artifact could not be fetched or used
	KindNetwork
	// KindVersionNotFound means metadata was fetched but no entry matched the selection rule
	KindVersionNotFound
	// KindUnsupportedPlatform means the host platform has no strategy
	KindUnsupportedPlatform
	// KindInstallerFailed means a download/extract/symlink/uninstall subprocess exited non-zero
	KindInstallerFailed
	// KindPathNotFound means uninstall found no candidate path to remove
	KindPathNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindExecutionFailed:
		return "execution failed"
	case KindNetwork:
		return "network error"
	case KindVersionNotFound:
		return "version not found"
	case KindUnsupportedPlatform:
		return "unsupported platform"
	case KindInstallerFailed:
		return "installer failed"
	case KindPathNotFound:
		return "path not found"
	default:
		return "unknown error"
	}
}

// ToolError represents a standardized error for toolchain operations
type ToolError struct {
	Tool    string    // Toolchain name (e.g., "go", "node")
	Version string    // Toolchain version, when known
	Op      string    // Operation (e.g., "install", "check", "fetch latest")
	Kind    ErrorKind // Failure classification
	Err     error     // Underlying error
}

// Error implements the error interface
func (e *ToolError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("%s %s %s failed (%s): %v", e.Tool, e.Version, e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s failed (%s): %v", e.Tool, e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError creates a new ToolError
func NewToolError(tool, version, op string, kind ErrorKind, err error) *ToolError {
	return &ToolError{
		Tool:    tool,
		Version: version,
		Op:      op,
		Kind:    kind,
		Err:     err,
	}
}

// NotFoundError reports a missing executable or companion tool
func NotFoundError(tool, op string, err error) *ToolError {
	return NewToolError(tool, "", op, KindNotFound, err)
}

// ExecutionError reports an executable that failed when queried
func ExecutionError(tool, op string, err error) *ToolError {
	return NewToolError(tool, "", op, KindExecutionFailed, err)
}

// NetworkError reports a failed metadata fetch, download or decode
func NetworkError(tool, version, op string, err error) *ToolError {
	return NewToolError(tool, version, op, KindNetwork, err)
}

// VersionNotFoundError reports metadata with no entry matching the selection rule
func VersionNotFoundError(tool string, err error) *ToolError {
	return NewToolError(tool, "", "fetch latest", KindVersionNotFound, err)
}

// UnsupportedPlatformError reports a platform without a strategy
func UnsupportedPlatformError(tool, op, platform string) *ToolError {
	return NewToolError(tool, "", op, KindUnsupportedPlatform, fmt.Errorf("unsupported platform: %s", platform))
}

// InstallerError reports a failed installer, symlink or removal subprocess
func InstallerError(tool, version, op string, err error) *ToolError {
	return NewToolError(tool, version, op, KindInstallerFailed, err)
}

// PathNotFoundError reports an uninstall with nothing to remove
func PathNotFoundError(tool string, candidates []string) *ToolError {
	if len(candidates) == 0 {
		return NewToolError(tool, "", "uninstall", KindPathNotFound,
			errors.New("no known installation path; remove it with the system package manager"))
	}
	return NewToolError(tool, "", "uninstall", KindPathNotFound,
		fmt.Errorf("no installation found in %v", candidates))
}

// WrapError wraps an error with toolchain context if it's not already a ToolError
func WrapError(tool, version, operation string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return err
	}

	return NewToolError(tool, version, operation, kind, err)
}

// KindOf returns the kind of the first ToolError in err's chain, or 0
func KindOf(err error) ErrorKind {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
