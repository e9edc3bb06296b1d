package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/platform"
	"github.com/ddokubi/language-revamp/pkg/version"
)

// nodeArch maps Go architecture names to Node.js distribution names
var nodeArch = map[string]string{
	"amd64": "x64",
	"386":   "x86",
	"arm64": "arm64",
	"arm":   "armv7l",
}

// nodeDescriptor describes Node.js, installed from the nodejs.org
// distribution archives.
func nodeDescriptor() *Descriptor {
	unix := func(osName string, extra ...string) *Strategy {
		dir := "node-v{version}-" + osName + "-{arch}"
		return &Strategy{
			URL:  "{nodedist}/v{version}/" + dir + ExtTarGz,
			File: "node" + ExtTarGz,
			Install: [][]Command{{
				{"sudo", "tar", "-C", "{prefix}", "-xzf", "{file}"},
				{"sudo", "ln", "-sf", "{prefix}/{dir}/bin/node", "{bindir}/node"},
				{"sudo", "ln", "-sf", "{prefix}/{dir}/bin/npm", "{bindir}/npm"},
				{"sudo", "ln", "-sf", "{prefix}/{dir}/bin/npx", "{bindir}/npx"},
			}},
			UninstallPaths: append([]string{
				"{prefix}/node-v*-" + osName + "-*",
				"{prefix}/node",
				"{bindir}/node",
			}, extra...),
			Cleanup: []string{"{bindir}/node", "{bindir}/npm", "{bindir}/npx", "{home}/.npm"},
		}
	}

	return &Descriptor{
		Name:         ToolNode,
		DisplayName:  "Node.js",
		Binary:       "node",
		VersionArgs:  []string{"-v"},
		ParseVersion: func(line string) string { return strings.TrimSpace(line) },
		Latest: func(ctx context.Context, t *Toolchain) (string, error) {
			return t.Manager().Registry().LatestNodeLTS(ctx)
		},
		ResolveArtifact: resolveNodeArtifact,
		ArchNames:       nodeArch,
		Platforms: map[platform.OS]*Strategy{
			platform.Windows: {
				URL:              "{nodedist}/v{version}/node-v{version}-{arch}" + ExtMsi,
				File:             "node-installer" + ExtMsi,
				Install:          [][]Command{{{"msiexec", "/i", "{file}", "/quiet", "/norestart"}}},
				ProductUninstall: Command{"wmic", "product", "where", "name='Node.js'", "call", "uninstall", "/nointeractive"},
				UninstallPaths:   []string{`{programfiles}\nodejs`, `C:\nodejs`},
				Cleanup:          []string{`{appdata}\npm`, `{appdata}\npm-cache`},
			},
			platform.Linux: unix("linux", "/usr/bin/node", "/opt/node"),
			platform.MacOS: unix("darwin", "/opt/node", "/opt/local/bin/node"),
		},
	}
}

// resolveNodeArtifact expands the URL template and points the checksum at
// the release's SHASUMS256.txt.
func resolveNodeArtifact(_ context.Context, t *Toolchain, v string, s *Strategy) (*Artifact, error) {
	vars := t.vars(v)
	url := expand(s.URL, vars)
	filename := url[strings.LastIndex(url, "/")+1:]
	return &Artifact{
		URL:  url,
		File: s.File,
		Dir:  strings.TrimSuffix(filename, ExtTarGz),
		Checksum: ChecksumInfo{
			Type:     SHA256,
			URL:      expand("{nodedist}/v{version}/SHASUMS256.txt", vars),
			Filename: filename,
		},
	}, nil
}

// ErrNVMNotInstalled is returned when nvm is requested but absent
var ErrNVMNotInstalled = errors.New("NVM is not installed. Please install NVM or remove --nvm flag.")

// NVM drives Node.js through the Node Version Manager. On Unix nvm is a
// shell function, so every call sources nvm.sh in a bash subshell.
type NVM struct {
	t   *Toolchain
	dir string
}

// NewNVM creates an nvm driver for the node toolchain
func NewNVM(t *Toolchain) *NVM {
	return &NVM{t: t, dir: t.Manager().NVMDir()}
}

// Available reports whether nvm is installed: its script or Windows
// installation directory exists, or an nvm executable answers.
func (n *NVM) Available(ctx context.Context) bool {
	m := n.t.Manager()
	if m.platform.IsWindows() {
		if m.fs.Exists(filepath.Join(m.vars()["appdata"], "nvm")) {
			return true
		}
	} else if m.fs.Exists(filepath.Join(n.dir, "nvm.sh")) {
		return true
	}
	res, err := m.runner.Output(ctx, "nvm", "version")
	return err == nil && res.ExitCode == 0
}

func (n *NVM) command(args ...string) []string {
	if n.t.Manager().platform.IsWindows() {
		return append([]string{"nvm"}, args...)
	}
	script := fmt.Sprintf(`export NVM_DIR=%q; . "$NVM_DIR/nvm.sh" && nvm %s`, n.dir, strings.Join(args, " "))
	return []string{"bash", "-c", script}
}

func (n *NVM) require(ctx context.Context, op string) error {
	if _, err := n.t.strategy(op); err != nil {
		return err
	}
	if !n.Available(ctx) {
		return NotFoundError(ToolNode, op, ErrNVMNotInstalled)
	}
	return nil
}

// Install installs a Node.js version through nvm
func (n *NVM) Install(ctx context.Context, v string) error {
	if err := n.require(ctx, "install"); err != nil {
		return err
	}
	p := n.t.Manager().Printer()
	p.Infof("⏳ Installing Node.js %s via nvm", v)
	if err := n.t.run(ctx, n.command("install", v)); err != nil {
		return InstallerError(ToolNode, v, "install", err)
	}
	p.Successf("✅ Node.js %s installed via nvm", v)
	return nil
}

// InstallLatest installs the latest LTS release through nvm
func (n *NVM) InstallLatest(ctx context.Context) (string, error) {
	if err := n.require(ctx, "install"); err != nil {
		return "", err
	}
	latest, err := n.t.FetchLatest(ctx)
	if err != nil {
		return "", err
	}
	return latest, n.Install(ctx, latest)
}

// Update installs and activates the latest LTS release through nvm unless
// the active version already matches it.
func (n *NVM) Update(ctx context.Context) (Outcome, error) {
	if err := n.require(ctx, "update"); err != nil {
		return OutcomeNone, err
	}
	info, err := n.t.Check(ctx)
	if err != nil {
		return OutcomeNone, err
	}
	latest, err := n.t.FetchLatest(ctx)
	if err != nil {
		return OutcomeNone, err
	}

	p := n.t.Manager().Printer()
	if info != nil {
		switch version.Compare(info.Version, latest) {
		case version.Equal:
			p.Successf("✅ Node.js is already up to date (%s)", info.Version)
			return OutcomeUpToDate, nil
		case version.Greater:
			p.Infof("ℹ️  Installed Node.js %s is newer than the latest LTS %s, nothing to do", info.Version, latest)
			return OutcomeAhead, nil
		}
	}

	if err := n.Install(ctx, latest); err != nil {
		return OutcomeNone, err
	}
	if err := n.t.run(ctx, n.command("use", latest)); err != nil {
		return OutcomeNone, InstallerError(ToolNode, latest, "update", err)
	}
	if info == nil {
		return OutcomeInstalled, nil
	}
	return OutcomeUpdated, nil
}
