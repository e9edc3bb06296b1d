// Package platform maps the host operating system onto the closed set of
// platforms the toolchain managers know how to drive.
package platform

import (
	"runtime"
)

// OS is the operating system category used to select installer strategies.
type OS int

const (
	Unknown OS = iota
	Windows
	Linux
	MacOS
)

// String returns the lower-case name of the platform
func (o OS) String() string {
	switch o {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case MacOS:
		return "macos"
	default:
		return "unknown"
	}
}

// Info contains platform detection information
type Info struct {
	OS   OS
	Arch string // Go architecture name (amd64, arm64, 386)
}

// Detect returns the platform of the running process. It never fails: an
// unrecognized operating system is reported as Unknown.
func Detect() Info {
	return FromGOOS(runtime.GOOS, runtime.GOARCH)
}

// FromGOOS maps Go's GOOS/GOARCH identifiers to an Info.
func FromGOOS(goos, goarch string) Info {
	info := Info{Arch: goarch}
	switch goos {
	case "windows":
		info.OS = Windows
	case "linux":
		info.OS = Linux
	case "darwin":
		info.OS = MacOS
	default:
		info.OS = Unknown
	}
	return info
}

// Supported reports whether the platform is one of the known ones.
func (i Info) Supported() bool {
	return i.OS != Unknown
}

// IsWindows returns true if the platform is Windows
func (i Info) IsWindows() bool {
	return i.OS == Windows
}

// IsUnix returns true if the platform is Linux or macOS
func (i Info) IsUnix() bool {
	return i.OS == Linux || i.OS == MacOS
}

// MapArch maps the Go architecture name to a vendor naming convention,
// falling back to the Go name when the mapping has no entry.
func (i Info) MapArch(mapping map[string]string) string {
	if mapped, exists := mapping[i.Arch]; exists {
		return mapped
	}
	return i.Arch
}

func (i Info) String() string {
	return i.OS.String() + "/" + i.Arch
}
