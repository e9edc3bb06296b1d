package tools

import (
	"context"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/platform"
)

// Command is an argv template. Elements may contain placeholders such as
// {version}, {file}, {dir}, {arch}, {prefix}, {bindir}, {home},
// {programfiles} and {appdata}.
type Command []string

// Strategy is the per-platform recipe of a toolchain
type Strategy struct {
	// URL is the artifact URL template; empty when installation downloads nothing
	URL string
	// File is the fixed temporary file name of the downloaded artifact
	File string
	// Install lists alternatives; the first whose commands all succeed wins
	Install [][]Command
	// Update, when set, updates in place instead of uninstall followed by install
	Update [][]Command
	// ProductUninstall is attempted before probing UninstallPaths
	ProductUninstall Command
	// UninstallPaths are probed in order; glob patterns are allowed
	UninstallPaths []string
	// RemoveAll removes every existing candidate instead of only the first
	RemoveAll bool
	// Uninstall, when set, replaces path probing
	Uninstall Command
	// Cleanup lists companion paths removed after uninstall when present
	Cleanup []string
}

// Artifact is a resolved installer download
type Artifact struct {
	URL      string
	File     string
	Dir      string // directory the archive extracts to
	Checksum ChecksumInfo
}

// Descriptor is the data-driven definition of one managed toolchain
type Descriptor struct {
	Name        string
	DisplayName string

	// Binary is the primary executable; AltBinaries are tried in order when it is absent
	Binary      string
	AltBinaries []string
	VersionArgs []string
	// VersionFromStderr reads the version line from stderr (java -version)
	VersionFromStderr bool
	// WindowsShell runs the version query through "cmd /C" on Windows
	WindowsShell bool
	// ParseVersion extracts the version from the first line of output
	ParseVersion func(line string) string

	// Latest returns the latest published version; nil when the toolchain has
	// no release metadata and updates always go through its package manager
	Latest func(ctx context.Context, t *Toolchain) (string, error)
	// VersionlessInstall marks installers that always install the latest
	// release themselves, so no version has to be fetched first
	VersionlessInstall bool
	// ResolveArtifact overrides the strategy URL template
	ResolveArtifact func(ctx context.Context, t *Toolchain, version string, s *Strategy) (*Artifact, error)

	// AfterInstall and AfterUpdate run companion steps; failures are warnings
	AfterInstall func(ctx context.Context, t *Toolchain) error
	AfterUpdate  func(ctx context.Context, t *Toolchain) error
	// Report replaces the default check report
	Report func(ctx context.Context, t *Toolchain) error

	// ArchNames maps Go architecture names to the vendor's naming
	ArchNames map[string]string
	Platforms map[platform.OS]*Strategy
}

// Binaries returns the primary and alternate executable names
func (d *Descriptor) Binaries() []string {
	return append([]string{d.Binary}, d.AltBinaries...)
}

// field returns a ParseVersion that takes the n-th whitespace separated field
func field(n int) func(string) string {
	return func(line string) string {
		fields := strings.Fields(line)
		if n < len(fields) {
			return fields[n]
		}
		return ""
	}
}

// expand substitutes {name} placeholders
func expand(s string, vars map[string]string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

func expandCommand(cmd Command, vars map[string]string) []string {
	argv := make([]string, len(cmd))
	for i, arg := range cmd {
		argv[i] = expand(arg, vars)
	}
	return argv
}

// Descriptors returns the five managed toolchains keyed by name
func Descriptors() map[string]*Descriptor {
	return map[string]*Descriptor{
		ToolGo:     goDescriptor(),
		ToolRust:   rustDescriptor(),
		ToolPython: pythonDescriptor(),
		ToolNode:   nodeDescriptor(),
		ToolJava:   javaDescriptor(),
	}
}

// ToolchainNames returns the managed toolchain names in display order
func ToolchainNames() []string {
	return []string{ToolGo, ToolRust, ToolPython, ToolNode, ToolJava}
}
