package tools

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ddokubi/language-revamp/pkg/config"
	"github.com/ddokubi/language-revamp/pkg/platform"
	"github.com/ddokubi/language-revamp/pkg/util"
)

// Manager owns the services shared by every toolchain (subprocess runner,
// downloader, release registry) and the registered toolchains themselves.
type Manager struct {
	platform   platform.Info
	runner     Runner
	lookPath   LookPathFunc
	fs         FileSystem
	registry   *Registry
	downloader Downloader
	verifier   *ChecksumVerifier
	printer    *Printer
	logger     util.Logger
	global     *config.GlobalConfig
	getenv     func(string) string
	tempDir    string
	homeDir    string

	toolchains map[string]*Toolchain
}

// Option configures a Manager
type Option func(*Manager)

// WithPlatform overrides platform detection
func WithPlatform(p platform.Info) Option { return func(m *Manager) { m.platform = p } }

// WithRunner overrides the subprocess runner
func WithRunner(r Runner) Option { return func(m *Manager) { m.runner = r } }

// WithLookPath overrides executable lookup
func WithLookPath(f LookPathFunc) Option { return func(m *Manager) { m.lookPath = f } }

// WithFileSystem overrides the filesystem used to probe install locations
func WithFileSystem(fs FileSystem) Option { return func(m *Manager) { m.fs = fs } }

// WithRegistry overrides the release metadata registry
func WithRegistry(r *Registry) Option { return func(m *Manager) { m.registry = r } }

// WithDownloader overrides the artifact downloader
func WithDownloader(d Downloader) Option { return func(m *Manager) { m.downloader = d } }

// WithChecksumVerifier overrides the checksum verifier
func WithChecksumVerifier(v *ChecksumVerifier) Option { return func(m *Manager) { m.verifier = v } }

// WithPrinter overrides where user-facing output goes
func WithPrinter(p *Printer) Option { return func(m *Manager) { m.printer = p } }

// WithLogger sets the diagnostic logger
func WithLogger(l util.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithGlobalConfig supplies the user configuration
func WithGlobalConfig(c *config.GlobalConfig) Option { return func(m *Manager) { m.global = c } }

// WithEnv overrides environment variable lookup
func WithEnv(getenv func(string) string) Option { return func(m *Manager) { m.getenv = getenv } }

// WithTempDir sets the directory downloaded artifacts are written to
func WithTempDir(dir string) Option { return func(m *Manager) { m.tempDir = dir } }

// WithHomeDir overrides the user home directory
func WithHomeDir(dir string) Option { return func(m *Manager) { m.homeDir = dir } }

// NewManager creates a manager with the five built-in toolchains registered
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		platform:   platform.Detect(),
		lookPath:   exec.LookPath,
		fs:         OSFileSystem{},
		getenv:     os.Getenv,
		tempDir:    os.TempDir(),
		toolchains: make(map[string]*Toolchain),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = util.Default()
	}
	if m.global == nil {
		m.global = &config.GlobalConfig{}
	}
	if m.homeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		m.homeDir = home
	}
	if m.runner == nil {
		m.runner = NewExecRunner(m.logger)
	}

	configProvider := NewDownloadConfigProvider(NewGlobalConfigProvider(m.global))
	if m.printer == nil {
		m.printer = NewPrinter(os.Stdout, isTerminalWriter(os.Stdout) && !configProvider.IsColorDisabled(), false)
	}

	var client *http.Client
	replacer := NewURLReplacer(m.global.URLReplacements)
	if m.registry == nil || m.downloader == nil || m.verifier == nil {
		client = NewHTTPClient(configProvider)
	}
	if m.registry == nil {
		m.registry = NewRegistry(client, configProvider, replacer, m.logger)
	}
	if m.downloader == nil {
		m.downloader = NewHTTPDownloader(client, configProvider, replacer, m.printer.Writer(), m.logger)
	}
	if m.verifier == nil {
		m.verifier = NewChecksumVerifier(client, replacer)
	}

	for _, desc := range Descriptors() {
		m.RegisterToolchain(desc)
	}
	return m, nil
}

// RegisterToolchain registers a toolchain, replacing any with the same name
func (m *Manager) RegisterToolchain(desc *Descriptor) *Toolchain {
	t := &Toolchain{desc: desc, m: m, logger: m.logger.With("tool", desc.Name)}
	m.toolchains[desc.Name] = t
	return t
}

// GetToolchain returns a toolchain by name
func (m *Manager) GetToolchain(name string) (*Toolchain, error) {
	t, exists := m.toolchains[name]
	if !exists {
		return nil, fmt.Errorf("unknown toolchain: %s", name)
	}
	return t, nil
}

// Platform returns the platform the manager operates on
func (m *Manager) Platform() platform.Info { return m.platform }

// Registry returns the release metadata registry
func (m *Manager) Registry() *Registry { return m.registry }

// Printer returns the user-facing printer
func (m *Manager) Printer() *Printer { return m.printer }

// NVMDir returns the nvm installation directory: the configured one, then
// NVM_DIR, then ~/.nvm.
func (m *Manager) NVMDir() string {
	if m.global.NVMDir != "" {
		return m.global.NVMDir
	}
	if dir := m.getenv(EnvNVMDir); dir != "" {
		return dir
	}
	return filepath.Join(m.homeDir, ".nvm")
}

// vars returns the placeholder values shared by every toolchain
func (m *Manager) vars() map[string]string {
	programFiles := m.getenv("ProgramFiles")
	if programFiles == "" {
		programFiles = `C:\Program Files`
	}
	appData := m.getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(m.homeDir, "AppData", "Roaming")
	}
	return map[string]string{
		"home":         m.homeDir,
		"prefix":       UnixInstallPrefix,
		"bindir":       UnixBinDir,
		"programfiles": programFiles,
		"appdata":      appData,
		"godev":        m.registry.GoDevURL(),
		"nodedist":     m.registry.NodeDistURL(),
	}
}
