package tools

import "time"

// Download Configuration Constants
const (
	// File size limits - permissive, checksums do the real validation
	DefaultMinFileSize = 1024       // 1KB minimum file size (just to catch empty files)
	DefaultMaxFileSize = 2147483648 // 2GB maximum file size

	// Timeout defaults
	DefaultDownloadTimeout = 600 * time.Second // 10 minutes
	DefaultAPITimeout      = 30 * time.Second
	DefaultTLSTimeout      = 120 * time.Second // 2 minutes
	DefaultResponseTimeout = 120 * time.Second // 2 minutes
	DefaultIdleTimeout     = 90 * time.Second  // 90 seconds

	MaxRedirects = 10

	// UserAgent is sent with every metadata and artifact request
	UserAgent = "language-revamp/1.0 (https://github.com/ddokubi/language-revamp)"
)

// API Base URLs
const (
	GoDevBase          = "https://go.dev/dl"
	NodeJSDistBase     = "https://nodejs.org/dist"
	AdoptiumAPIBase    = "https://api.adoptium.net/v3"
	RustDistBase       = "https://static.rust-lang.org/dist"
	RustupInstallerURL = "https://sh.rustup.rs"
	TemurinOwner       = "adoptium"
)

// Environment Variable Names
const (
	EnvDownloadTimeout = "LANGREV_DOWNLOAD_TIMEOUT"
	EnvAPITimeout      = "LANGREV_API_TIMEOUT"
	EnvTLSTimeout      = "LANGREV_TLS_TIMEOUT"
	EnvResponseTimeout = "LANGREV_RESPONSE_TIMEOUT"
	EnvIdleTimeout     = "LANGREV_IDLE_TIMEOUT"
	EnvMinFileSize     = "LANGREV_MIN_FILE_SIZE"
	EnvMaxFileSize     = "LANGREV_MAX_FILE_SIZE"
	EnvNoColor         = "LANGREV_NO_COLOR"
	EnvGitHubToken     = "GITHUB_TOKEN"
	EnvNVMDir          = "NVM_DIR"
)

// File Extensions
const (
	ExtMsi   = ".msi"
	ExtZip   = ".zip"
	ExtTarGz = ".tar.gz"
	ExtTgz   = ".tgz"
)

// Toolchain Names
const (
	ToolGo     = "go"
	ToolRust   = "rust"
	ToolPython = "python"
	ToolNode   = "node"
	ToolJava   = "java"
)

// Fixed Unix installation directories
const (
	UnixInstallPrefix = "/usr/local"
	UnixBinDir        = "/usr/local/bin"
)
