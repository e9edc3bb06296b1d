package tools

import (
	"context"
	"path"

	"github.com/ddokubi/language-revamp/pkg/platform"
)

// goDescriptor describes the Go toolchain, installed from the go.dev
// archives (MSI on Windows, tarball under /usr/local elsewhere).
func goDescriptor() *Descriptor {
	unix := func(goos string) *Strategy {
		return &Strategy{
			URL:  "{godev}/{version}." + goos + "-{arch}" + ExtTarGz,
			File: "go" + ExtTarGz,
			Install: [][]Command{{
				{"sudo", "tar", "-C", "{prefix}", "-xzf", "{file}"},
				{"sudo", "ln", "-sf", "{prefix}/go/bin/go", "{bindir}/go"},
				{"sudo", "ln", "-sf", "{prefix}/go/bin/gofmt", "{bindir}/gofmt"},
			}},
			Cleanup: []string{"{bindir}/go", "{bindir}/gofmt"},
		}
	}

	linux := unix("linux")
	linux.UninstallPaths = []string{"{prefix}/go"}
	mac := unix("darwin")
	mac.UninstallPaths = []string{"{prefix}/go", "/opt/go"}

	return &Descriptor{
		Name:         ToolGo,
		DisplayName:  "Go",
		Binary:       "go",
		VersionArgs:  []string{"version"},
		ParseVersion: field(2), // go version go1.22.1 linux/amd64
		Latest: func(ctx context.Context, t *Toolchain) (string, error) {
			return t.Manager().Registry().LatestGo(ctx)
		},
		ResolveArtifact: resolveGoArtifact,
		Platforms: map[platform.OS]*Strategy{
			platform.Windows: {
				URL:            "{godev}/{version}.windows-{arch}" + ExtMsi,
				File:           "go-installer" + ExtMsi,
				Install:        [][]Command{{{"msiexec", "/i", "{file}", "/quiet", "/norestart"}}},
				UninstallPaths: []string{`{programfiles}\Go`, `C:\Go`},
			},
			platform.Linux: linux,
			platform.MacOS: mac,
		},
	}
}

// resolveGoArtifact expands the URL template and attaches the SHA-256
// published in the go.dev release index. A missing checksum is logged and
// the download proceeds unverified.
func resolveGoArtifact(ctx context.Context, t *Toolchain, v string, s *Strategy) (*Artifact, error) {
	url := expand(s.URL, t.vars(v))
	artifact := &Artifact{URL: url, File: s.File}

	filename := path.Base(url)
	sum, err := t.Manager().Registry().GoChecksum(ctx, v, filename)
	if err != nil {
		t.logger.Debug("no checksum for go artifact", "file", filename, "error", err)
		return artifact, nil
	}
	artifact.Checksum = ChecksumInfo{Type: SHA256, Value: sum}
	return artifact, nil
}
