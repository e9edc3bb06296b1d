package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/platform"
)

var javaArch = map[string]string{
	"amd64": "x64",
	"arm64": "aarch64",
	"386":   "x32",
}

// javaDescriptor describes the Eclipse Temurin JDK. The installed build is
// resolved from the Temurin GitHub releases; versions are LTS feature
// releases such as "21".
func javaDescriptor() *Descriptor {
	unixInstall := func(javaHome string) [][]Command {
		return [][]Command{{
			{"sudo", "tar", "-C", "{prefix}", "-xzf", "{file}"},
			{"sudo", "ln", "-sf", "{prefix}/{dir}" + javaHome + "/bin/java", "{bindir}/java"},
			{"sudo", "ln", "-sf", "{prefix}/{dir}" + javaHome + "/bin/javac", "{bindir}/javac"},
		}}
	}
	unix := func(javaHome string) *Strategy {
		return &Strategy{
			File:           "jdk" + ExtTarGz,
			Install:        unixInstall(javaHome),
			UninstallPaths: []string{"{prefix}/jdk-*"},
			RemoveAll:      true,
			Cleanup:        []string{"{bindir}/java", "{bindir}/javac"},
		}
	}

	return &Descriptor{
		Name:              ToolJava,
		DisplayName:       "Java",
		Binary:            "java",
		VersionArgs:       []string{"-version"},
		VersionFromStderr: true,
		WindowsShell:      true,
		ParseVersion:      parseJavaVersion,
		Latest: func(ctx context.Context, t *Toolchain) (string, error) {
			return t.Manager().Registry().LatestJavaLTS(ctx)
		},
		ResolveArtifact: resolveJavaArtifact,
		ArchNames:       javaArch,
		Platforms: map[platform.OS]*Strategy{
			platform.Windows: {
				File: "jdk-installer" + ExtMsi,
				Install: [][]Command{{{"msiexec", "/i", "{file}",
					"ADDLOCAL=FeatureMain,FeatureEnvironment,FeatureJarFileRunWith,FeatureJavaHome",
					"/quiet", "/norestart"}}},
				ProductUninstall: Command{"wmic", "product", "where", "name like 'Eclipse Temurin%'", "call", "uninstall", "/nointeractive"},
				UninstallPaths:   []string{`{programfiles}\Eclipse Adoptium`},
				Cleanup:          []string{`{programfiles}\Java`},
			},
			platform.Linux: unix(""),
			platform.MacOS: unix("/Contents/Home"),
		},
	}
}

// parseJavaVersion returns the major version from a line such as
// `openjdk version "21.0.2" 2024-01-16`. Legacy "1.x" versions report x.
func parseJavaVersion(line string) string {
	start := strings.Index(line, `"`)
	if start < 0 {
		return ""
	}
	rest := line[start+1:]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return ""
	}
	parts := strings.Split(rest[:end], ".")
	if parts[0] == "1" && len(parts) > 1 {
		return parts[1]
	}
	// early access builds report "22-ea"
	major, _, _ := strings.Cut(parts[0], "-")
	return major
}

func temurinOS(p platform.Info) string {
	switch p.OS {
	case platform.Windows:
		return "windows"
	case platform.MacOS:
		return "mac"
	default:
		return "linux"
	}
}

// resolveJavaArtifact finds the Temurin JDK build for a feature release
func resolveJavaArtifact(ctx context.Context, t *Toolchain, major string, s *Strategy) (*Artifact, error) {
	m := t.Manager()
	ext := ExtTarGz
	if m.platform.IsWindows() {
		ext = ExtMsi
	}
	release, err := m.Registry().TemurinAsset(ctx, major, temurinOS(m.platform), m.platform.MapArch(javaArch), ext)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Temurin %s build: %w", major, err)
	}
	artifact := &Artifact{URL: release.URL, File: s.File, Dir: release.Tag}
	if release.ChecksumURL != "" {
		artifact.Checksum = ChecksumInfo{Type: SHA256, URL: release.ChecksumURL}
	}
	return artifact, nil
}
