package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/util"
	"github.com/ddokubi/language-revamp/pkg/version"
)

// InstalledInfo describes a toolchain found on the PATH
type InstalledInfo struct {
	Binary  string // executable name that was found
	Path    string
	Version string
	Raw     string // first line of the version query output
}

// Outcome is the result of an update
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeInstalled means nothing was installed and the latest was installed
	OutcomeInstalled
	// OutcomeUpdated means an older version was replaced
	OutcomeUpdated
	// OutcomeUpToDate means the installed version is the latest
	OutcomeUpToDate
	// OutcomeAhead means the installed version is newer than the latest published one
	OutcomeAhead
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInstalled:
		return "installed"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUpToDate:
		return "up to date"
	case OutcomeAhead:
		return "ahead"
	default:
		return "none"
	}
}

// Toolchain runs the check, install, update and uninstall operations of a
// single descriptor against the manager's services.
type Toolchain struct {
	desc   *Descriptor
	m      *Manager
	logger util.Logger
}

// Manager returns the owning manager
func (t *Toolchain) Manager() *Manager { return t.m }

// strategy returns the recipe for the current platform
func (t *Toolchain) strategy(op string) (*Strategy, error) {
	p := t.m.platform
	if !p.Supported() {
		return nil, UnsupportedPlatformError(t.desc.Name, op, p.String())
	}
	s, exists := t.desc.Platforms[p.OS]
	if !exists || s == nil {
		return nil, UnsupportedPlatformError(t.desc.Name, op, p.String())
	}
	return s, nil
}

func (t *Toolchain) vars(v string) map[string]string {
	vars := t.m.vars()
	vars["version"] = v
	vars["arch"] = t.m.platform.MapArch(t.desc.ArchNames)
	return vars
}

// Check locates the toolchain and queries its version. A toolchain that is
// not on the PATH yields a nil InstalledInfo and no error; an executable
// that cannot report its version is an execution failure.
func (t *Toolchain) Check(ctx context.Context) (*InstalledInfo, error) {
	for _, name := range t.desc.Binaries() {
		path, err := t.m.lookPath(name)
		if err != nil {
			t.logger.Debug("executable not on PATH", "name", name)
			continue
		}

		res, err := t.queryVersion(ctx, name, path)
		if err != nil {
			return nil, ExecutionError(t.desc.Name, "check", err)
		}
		if res.ExitCode != 0 {
			return nil, ExecutionError(t.desc.Name, "check",
				fmt.Errorf("%s %s exited with status %d: %s", name, strings.Join(t.desc.VersionArgs, " "),
					res.ExitCode, strings.TrimSpace(res.Stderr)))
		}

		line := res.FirstLine(t.desc.VersionFromStderr)
		if line == "" {
			line = res.FirstLine(!t.desc.VersionFromStderr)
		}
		info := &InstalledInfo{Binary: name, Path: path, Raw: line, Version: t.desc.ParseVersion(line)}
		t.logger.Debug("toolchain found", "path", path, "version", info.Version)
		return info, nil
	}
	return nil, nil
}

func (t *Toolchain) queryVersion(ctx context.Context, name, path string) (Result, error) {
	if t.desc.WindowsShell && t.m.platform.IsWindows() {
		args := append([]string{"/C", name}, t.desc.VersionArgs...)
		return t.m.runner.Output(ctx, "cmd", args...)
	}
	return t.m.runner.Output(ctx, path, t.desc.VersionArgs...)
}

// FetchLatest returns the latest published version
func (t *Toolchain) FetchLatest(ctx context.Context) (string, error) {
	if t.desc.Latest == nil {
		return "", VersionNotFoundError(t.desc.Name, errors.New("no release metadata is published"))
	}
	latest, err := t.desc.Latest(ctx, t)
	if err != nil {
		var toolErr *ToolError
		switch {
		case errors.As(err, &toolErr):
			return "", err
		case errors.Is(err, ErrNoMatchingRelease):
			return "", VersionNotFoundError(t.desc.Name, err)
		default:
			return "", NetworkError(t.desc.Name, "", "fetch latest", err)
		}
	}
	t.logger.Debug("latest version resolved", "version", latest)
	return latest, nil
}

// InstallLatest resolves the latest version and installs it. The platform
// is checked before any network access.
func (t *Toolchain) InstallLatest(ctx context.Context) (string, error) {
	if _, err := t.strategy("install"); err != nil {
		return "", err
	}
	v := ""
	if !t.desc.VersionlessInstall {
		latest, err := t.FetchLatest(ctx)
		if err != nil {
			return "", err
		}
		v = latest
	}
	return v, t.Install(ctx, v)
}

// Install downloads the artifact for the version, when the platform recipe
// has one, and runs the installer commands. The temporary artifact is
// removed whatever the outcome.
func (t *Toolchain) Install(ctx context.Context, v string) error {
	s, err := t.strategy("install")
	if err != nil {
		return err
	}
	p := t.m.printer
	vars := t.vars(v)

	if s.URL != "" || t.desc.ResolveArtifact != nil {
		artifact, err := t.resolveArtifact(ctx, v, s, vars)
		if err != nil {
			return err
		}
		dest := filepath.Join(t.m.tempDir, artifact.File)
		defer func() {
			if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
				t.logger.Warn("failed to remove temporary artifact", "path", dest, "error", err)
			}
		}()

		p.Infof("⏳ Downloading %s %s from %s", t.desc.DisplayName, v, artifact.URL)
		if _, err := t.m.downloader.Download(ctx, artifact.URL, dest); err != nil {
			p.Stepf("💡 %s", DiagnoseDownloadError(artifact.URL, err))
			return NetworkError(t.desc.Name, v, "download", err)
		}
		if err := t.verifyChecksum(ctx, v, dest, artifact.Checksum); err != nil {
			return err
		}
		vars["file"] = dest
		vars["dir"] = artifact.Dir
	}

	p.Infof("🔧 Installing %s %s", t.desc.DisplayName, v)
	if err := t.runAlternatives(ctx, s.Install, vars); err != nil {
		return InstallerError(t.desc.Name, v, "install", err)
	}
	t.afterHook(ctx, t.desc.AfterInstall, "install")

	if v != "" {
		p.Successf("✅ %s %s installed successfully", t.desc.DisplayName, v)
	} else {
		p.Successf("✅ %s installed successfully", t.desc.DisplayName)
	}
	return nil
}

func (t *Toolchain) resolveArtifact(ctx context.Context, v string, s *Strategy, vars map[string]string) (*Artifact, error) {
	if t.desc.ResolveArtifact != nil {
		artifact, err := t.desc.ResolveArtifact(ctx, t, v, s)
		if err != nil {
			kind := KindNetwork
			if errors.Is(err, ErrNoMatchingRelease) {
				kind = KindVersionNotFound
			}
			return nil, WrapError(t.desc.Name, v, "resolve artifact", kind, err)
		}
		if artifact.File == "" {
			artifact.File = s.File
		}
		return artifact, nil
	}
	return &Artifact{URL: expand(s.URL, vars), File: s.File}, nil
}

func (t *Toolchain) verifyChecksum(ctx context.Context, v, path string, checksum ChecksumInfo) error {
	if checksum.IsZero() {
		t.logger.Debug("no checksum published, skipping verification", "path", path)
		return nil
	}
	expected, err := t.m.verifier.ExpectedChecksum(ctx, checksum)
	if err != nil {
		t.m.printer.Warnf("⚠️  Could not fetch checksum for %s %s: %v", t.desc.DisplayName, v, err)
		return nil
	}
	if err := t.m.verifier.VerifyFile(path, checksum.Type, expected); err != nil {
		return NetworkError(t.desc.Name, v, "verify checksum", err)
	}
	t.m.printer.Stepf("🔐 Checksum verified")
	return nil
}

// runAlternatives runs the first alternative whose commands all succeed
func (t *Toolchain) runAlternatives(ctx context.Context, alternatives [][]Command, vars map[string]string) error {
	if len(alternatives) == 0 {
		return errors.New("no installer command for this platform")
	}
	var lastErr error
	for i, commands := range alternatives {
		if lastErr = t.runAll(ctx, commands, vars); lastErr == nil {
			return nil
		}
		if i < len(alternatives)-1 {
			t.logger.Warn("installer alternative failed, trying next", "error", lastErr)
		}
	}
	return lastErr
}

func (t *Toolchain) runAll(ctx context.Context, commands []Command, vars map[string]string) error {
	for _, cmd := range commands {
		if err := t.run(ctx, expandCommand(cmd, vars)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Toolchain) run(ctx context.Context, argv []string) error {
	t.logger.Debug("running command", "argv", argv)
	code, err := t.m.runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	if code != 0 {
		return fmt.Errorf("%s exited with status %d", strings.Join(argv, " "), code)
	}
	return nil
}

func (t *Toolchain) afterHook(ctx context.Context, hook func(context.Context, *Toolchain) error, op string) {
	if hook == nil {
		return
	}
	if err := hook(ctx, t); err != nil {
		t.m.printer.Warnf("⚠️  %s post-%s step failed: %v", t.desc.DisplayName, op, err)
	}
}

// Update brings the toolchain to the latest published version. It installs
// when absent, does nothing when current, and never downgrades.
func (t *Toolchain) Update(ctx context.Context) (Outcome, error) {
	s, err := t.strategy("update")
	if err != nil {
		return OutcomeNone, err
	}
	p := t.m.printer

	info, err := t.Check(ctx)
	if err != nil {
		return OutcomeNone, err
	}

	if info == nil && (t.desc.Latest == nil || t.desc.VersionlessInstall) {
		p.Infof("%s is not installed, installing it", t.desc.DisplayName)
		return installed(t.Install(ctx, ""))
	}

	if t.desc.Latest == nil {
		p.Infof("⬆️  Updating %s %s with the system package manager", t.desc.DisplayName, info.Version)
		if err := t.runAlternatives(ctx, s.Update, t.vars(info.Version)); err != nil {
			return OutcomeNone, InstallerError(t.desc.Name, info.Version, "update", err)
		}
		t.afterHook(ctx, t.desc.AfterUpdate, "update")
		p.Successf("✅ %s updated", t.desc.DisplayName)
		return OutcomeUpdated, nil
	}

	latest, err := t.FetchLatest(ctx)
	if err != nil {
		return OutcomeNone, err
	}

	if info == nil {
		p.Infof("%s is not installed, installing %s", t.desc.DisplayName, latest)
		return installed(t.Install(ctx, latest))
	}

	order := version.Less
	if version.IsNumeric(latest) {
		order = version.Compare(info.Version, latest)
	}
	switch order {
	case version.Equal:
		p.Successf("✅ %s is already up to date (%s)", t.desc.DisplayName, info.Version)
		return OutcomeUpToDate, nil
	case version.Greater:
		p.Infof("ℹ️  Installed %s %s is newer than the latest release %s, nothing to do",
			t.desc.DisplayName, info.Version, latest)
		return OutcomeAhead, nil
	}

	p.Infof("⬆️  Updating %s from %s to %s", t.desc.DisplayName, info.Version, latest)
	if len(s.Update) > 0 {
		if err := t.runAlternatives(ctx, s.Update, t.vars(latest)); err != nil {
			return OutcomeNone, InstallerError(t.desc.Name, latest, "update", err)
		}
		t.afterHook(ctx, t.desc.AfterUpdate, "update")
		p.Successf("✅ %s updated to %s", t.desc.DisplayName, latest)
		return OutcomeUpdated, nil
	}

	if err := t.Uninstall(ctx); err != nil {
		return OutcomeNone, err
	}
	if err := t.Install(ctx, latest); err != nil {
		return OutcomeNone, err
	}
	return OutcomeUpdated, nil
}

func installed(err error) (Outcome, error) {
	if err != nil {
		return OutcomeNone, err
	}
	return OutcomeInstalled, nil
}

// Uninstall removes the toolchain. On Windows the registered product is
// uninstalled first; then the candidate locations are probed and the first
// existing one (or every one, for multi-version layouts) is removed,
// followed by companion cleanup.
func (t *Toolchain) Uninstall(ctx context.Context) error {
	s, err := t.strategy("uninstall")
	if err != nil {
		return err
	}
	p := t.m.printer
	vars := t.vars("")

	if len(s.Uninstall) > 0 {
		p.Infof("🗑️  Uninstalling %s", t.desc.DisplayName)
		if err := t.run(ctx, expandCommand(s.Uninstall, vars)); err != nil {
			return InstallerError(t.desc.Name, "", "uninstall", err)
		}
		t.cleanup(ctx, s, vars)
		p.Successf("✅ %s uninstalled", t.desc.DisplayName)
		return nil
	}

	productRemoved := false
	if len(s.ProductUninstall) > 0 {
		if err := t.run(ctx, expandCommand(s.ProductUninstall, vars)); err != nil {
			t.logger.Debug("product uninstall did not succeed", "error", err)
		} else {
			productRemoved = true
			p.Stepf("🗑️  Removed the installed %s product", t.desc.DisplayName)
		}
	}

	candidates := make([]string, 0, len(s.UninstallPaths))
	for _, c := range s.UninstallPaths {
		candidates = append(candidates, expand(c, vars))
	}
	found := t.existing(candidates, s.RemoveAll)
	if len(found) == 0 {
		if productRemoved {
			p.Successf("✅ %s uninstalled", t.desc.DisplayName)
			return nil
		}
		return PathNotFoundError(t.desc.Name, candidates)
	}

	for _, path := range found {
		if err := t.run(ctx, t.removeCommand(path)); err != nil {
			return InstallerError(t.desc.Name, "", "uninstall", err)
		}
		p.Stepf("🗑️  Removed %s", path)
	}
	t.cleanup(ctx, s, vars)
	p.Successf("✅ %s uninstalled", t.desc.DisplayName)
	return nil
}

// existing returns the candidates present on disk, expanding globs. Only
// the first is returned unless all is set.
func (t *Toolchain) existing(candidates []string, all bool) []string {
	var found []string
	for _, c := range candidates {
		var matches []string
		if hasGlobMeta(c) {
			globbed, err := t.m.fs.Glob(c)
			if err != nil {
				t.logger.Debug("invalid uninstall pattern", "pattern", c, "error", err)
				continue
			}
			matches = globbed
		} else if t.m.fs.Exists(c) {
			matches = []string{c}
		}
		for _, match := range matches {
			found = append(found, match)
			if !all {
				return found
			}
		}
	}
	return found
}

func (t *Toolchain) cleanup(ctx context.Context, s *Strategy, vars map[string]string) {
	for _, c := range s.Cleanup {
		path := expand(c, vars)
		if !t.m.fs.Exists(path) {
			continue
		}
		if err := t.run(ctx, t.removeCommand(path)); err != nil {
			t.m.printer.Warnf("⚠️  Failed to remove %s: %v", path, err)
			continue
		}
		t.m.printer.Stepf("🧹 Removed %s", path)
	}
}

// removeCommand builds the recursive removal command for a path. Paths in
// the user's home are removed without elevation.
func (t *Toolchain) removeCommand(path string) []string {
	if t.m.platform.IsWindows() {
		return []string{"cmd", "/C", "rmdir", "/S", "/Q", path}
	}
	if t.m.homeDir != "" && strings.HasPrefix(path, t.m.homeDir+string(filepath.Separator)) {
		return []string{"rm", "-rf", path}
	}
	return []string{"sudo", "rm", "-rf", path}
}

// Report prints the check result
func (t *Toolchain) Report(ctx context.Context) error {
	if t.desc.Report != nil {
		return t.desc.Report(ctx, t)
	}
	info, err := t.Check(ctx)
	if err != nil {
		return err
	}
	p := t.m.printer
	if info == nil {
		p.Failf("❌ %s is not installed", t.desc.DisplayName)
		return nil
	}
	p.Successf("✅ %s found at: %s", t.desc.DisplayName, info.Path)
	p.Printf("   Installed %s version: %s", t.desc.DisplayName, info.Version)
	return nil
}
