package tools

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/util"
)

// Result is the outcome of a finished subprocess
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// FirstLine returns the first non-empty line of stdout, or of stderr when
// fromStderr is set.
func (r Result) FirstLine(fromStderr bool) string {
	out := r.Stdout
	if fromStderr {
		out = r.Stderr
	}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// Runner executes external commands. An error is returned only when the
// process could not be started; a non-zero exit is reported through the
// exit code.
type Runner interface {
	// Output runs the command and captures stdout and stderr.
	Output(ctx context.Context, name string, args ...string) (Result, error)
	// Run runs the command attached to the terminal so installers and sudo
	// can prompt, and returns its exit code.
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// ExecRunner is the Runner backed by os/exec
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	logger util.Logger
}

// NewExecRunner creates a Runner attached to the process standard streams
func NewExecRunner(logger util.Logger) *ExecRunner {
	if logger == nil {
		logger = util.NewNoop()
	}
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// Output implements Runner
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (Result, error) {
	r.logger.Debug("running command", "cmd", name, "args", args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	return res, exitStatus(err, &res.ExitCode)
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	r.logger.Debug("running interactive command", "cmd", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	var code int
	err := exitStatus(cmd.Run(), &code)
	return code, err
}

// exitStatus turns an *exec.ExitError into an exit code and keeps any other
// error (binary missing, permission denied) as a start failure.
func exitStatus(err error, code *int) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		*code = exitErr.ExitCode()
		return nil
	}
	*code = -1
	return err
}

// LookPathFunc resolves an executable name to an absolute path
type LookPathFunc func(name string) (string, error)

// FileSystem probes the host filesystem for uninstall candidates
type FileSystem interface {
	Exists(path string) bool
	Glob(pattern string) ([]string, error)
}

// OSFileSystem is the FileSystem backed by the os package
type OSFileSystem struct{}

// Exists reports whether path exists, following no symlinks
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Glob implements FileSystem
func (OSFileSystem) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// hasGlobMeta reports whether the path contains glob metacharacters
func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[")
}
