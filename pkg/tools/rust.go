package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/platform"
	"github.com/ddokubi/language-revamp/pkg/version"
)

// rustDescriptor describes the Rust toolchain, managed through rustup
func rustDescriptor() *Descriptor {
	unix := &Strategy{
		Install: [][]Command{{
			{"sh", "-c", "curl --proto '=https' --tlsv1.2 -sSf " + RustupInstallerURL + " | sh -s -- -y"},
		}},
		Update:    [][]Command{{{"rustup", "update"}}},
		Uninstall: Command{"rustup", "self", "uninstall", "-y"},
	}

	return &Descriptor{
		Name:               ToolRust,
		DisplayName:        "Rust",
		Binary:             "rustc",
		VersionArgs:        []string{"--version"},
		ParseVersion:       field(1), // rustc 1.77.2 (25ef9e3d8 2024-04-09)
		Latest:             latestRust,
		VersionlessInstall: true,
		Platforms: map[platform.OS]*Strategy{
			platform.Windows: {
				Install: [][]Command{{{"winget", "install", "--id", "Rustlang.Rustup", "-e",
					"--accept-source-agreements", "--accept-package-agreements"}}},
				Update:    [][]Command{{{"rustup", "update"}}},
				Uninstall: Command{"rustup", "self", "uninstall", "-y"},
			},
			platform.Linux: unix,
			platform.MacOS: unix,
		},
	}
}

// latestRust reads the active toolchain from rustup. A channel name such as
// "stable" is resolved to its release through the channel manifest; when
// that fails the channel name is returned and the caller treats the
// toolchain as outdated, letting rustup decide.
func latestRust(ctx context.Context, t *Toolchain) (string, error) {
	m := t.Manager()
	if _, err := m.lookPath("rustup"); err != nil {
		return "", ExecutionError(ToolRust, "fetch latest",
			errors.New("rustup is required to update Rust; install it from https://rustup.rs"))
	}

	res, err := m.runner.Output(ctx, "rustup", "show", "active-toolchain")
	if err != nil {
		return "", ExecutionError(ToolRust, "fetch latest", err)
	}
	if res.ExitCode != 0 {
		return "", ExecutionError(ToolRust, "fetch latest",
			fmt.Errorf("rustup show active-toolchain exited with status %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr)))
	}

	// stable-x86_64-unknown-linux-gnu (default)
	fields := strings.Fields(res.FirstLine(false))
	if len(fields) == 0 {
		return "", VersionNotFoundError(ToolRust, errors.New("rustup reported no active toolchain"))
	}
	channel, _, _ := strings.Cut(fields[0], "-")
	if version.IsNumeric(channel) {
		return channel, nil
	}

	resolved, err := m.Registry().RustChannelVersion(ctx, channel)
	if err != nil {
		t.logger.Warn("could not resolve rust channel, updating unconditionally", "channel", channel, "error", err)
		return channel, nil
	}
	return resolved, nil
}
