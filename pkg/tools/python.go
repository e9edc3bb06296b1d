package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/platform"
)

// pythonDescriptor describes CPython, installed and updated through the
// platform package manager (conda or winget, apt-get, Homebrew). No release
// metadata is consulted.
func pythonDescriptor() *Descriptor {
	return &Descriptor{
		Name:               ToolPython,
		DisplayName:        "Python",
		Binary:             "python",
		AltBinaries:        []string{"python3"},
		VersionArgs:        []string{"--version"},
		ParseVersion:       field(1), // Python 3.12.2
		VersionlessInstall: true,
		AfterInstall: func(ctx context.Context, t *Toolchain) error {
			return runPip(ctx, t, "-m", "ensurepip", "--upgrade")
		},
		AfterUpdate: func(ctx context.Context, t *Toolchain) error {
			return runPip(ctx, t, "-m", "pip", "install", "--upgrade", "pip")
		},
		Report: reportPython,
		Platforms: map[platform.OS]*Strategy{
			platform.Windows: {
				Install: [][]Command{
					{{"conda", "install", "python", "-y"}},
					{{"winget", "install", "--id", "Python.Python.3.12", "--source", "winget", "-e"}},
				},
				Update: [][]Command{
					{{"conda", "update", "python", "-y"}},
					{{"winget", "upgrade", "--id", "Python.Python.3.12", "--source", "winget", "-e"}},
				},
			},
			platform.Linux: {
				Install: [][]Command{{{"sudo", "apt-get", "install", "-y", "python3", "python3-pip"}}},
				Update:  [][]Command{{{"sudo", "apt-get", "install", "--only-upgrade", "-y", "python3"}}},
			},
			platform.MacOS: {
				Install: [][]Command{{{"brew", "install", "python"}}},
				Update:  [][]Command{{{"brew", "upgrade", "python"}}},
			},
		},
	}
}

// runPip runs a python module command, inside conda's base environment when
// conda is present.
func runPip(ctx context.Context, t *Toolchain, args ...string) error {
	m := t.Manager()
	if _, err := m.lookPath("conda"); err == nil {
		return t.run(ctx, append([]string{"conda", "run", "-n", "base", "python"}, args...))
	}
	for _, name := range t.desc.Binaries() {
		if _, err := m.lookPath(name); err == nil {
			return t.run(ctx, append([]string{name}, args...))
		}
	}
	return errors.New("no python interpreter on PATH")
}

// reportPython lists every interpreter found with its pip, then conda
func reportPython(ctx context.Context, t *Toolchain) error {
	m := t.Manager()
	p := m.Printer()

	found := false
	for _, name := range t.desc.Binaries() {
		path, err := m.lookPath(name)
		if err != nil {
			continue
		}
		found = true
		p.Successf("✅ %s found at: %s", name, path)
		p.Printf("   Version: %s", firstOutputLine(ctx, m, path, "--version"))
		if pip := firstOutputLine(ctx, m, path, "-m", "pip", "--version"); pip != "" {
			p.Printf("   pip: %s", pip)
		} else {
			p.Printf("   pip: not available")
		}
	}

	if path, err := m.lookPath("conda"); err == nil {
		found = true
		p.Successf("✅ conda found at: %s", path)
		p.Printf("   Version: %s", firstOutputLine(ctx, m, path, "--version"))
	}

	if !found {
		p.Failf("❌ No Python installation found")
	}
	return nil
}

// firstOutputLine runs a query and returns its first output line, from
// either stream, or "" on failure.
func firstOutputLine(ctx context.Context, m *Manager, name string, args ...string) string {
	res, err := m.runner.Output(ctx, name, args...)
	if err != nil || res.ExitCode != 0 {
		return ""
	}
	if line := res.FirstLine(false); line != "" {
		return line
	}
	return strings.TrimSpace(res.FirstLine(true))
}
