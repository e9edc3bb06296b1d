package tools

import (
	"os"
	"strconv"
	"time"

	"github.com/ddokubi/language-revamp/pkg/config"
)

// ConfigProvider interface for providing configuration values
type ConfigProvider interface {
	GetTimeout(key string, defaultValue time.Duration) time.Duration
	GetInt(key string, defaultValue int) int
	GetBool(key string, defaultValue bool) bool
}

// EnvironmentConfigProvider provides configuration from environment variables
type EnvironmentConfigProvider struct{}

// NewEnvironmentConfigProvider creates a new environment-based config provider
func NewEnvironmentConfigProvider() *EnvironmentConfigProvider {
	return &EnvironmentConfigProvider{}
}

// GetTimeout returns a timeout value from environment or default
func (p *EnvironmentConfigProvider) GetTimeout(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if timeout, err := time.ParseDuration(value); err == nil && timeout > 0 {
			return timeout
		}
	}
	return defaultValue
}

// GetInt returns an integer value from environment or default
func (p *EnvironmentConfigProvider) GetInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetBool returns a boolean value from environment or default
func (p *EnvironmentConfigProvider) GetBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

// GlobalConfigProvider layers the global configuration file under the
// environment: environment first, then file, then the built-in default.
type GlobalConfigProvider struct {
	env    *EnvironmentConfigProvider
	global *config.GlobalConfig
}

// NewGlobalConfigProvider creates a provider backed by the given configuration
func NewGlobalConfigProvider(global *config.GlobalConfig) *GlobalConfigProvider {
	if global == nil {
		global = &config.GlobalConfig{}
	}
	return &GlobalConfigProvider{env: NewEnvironmentConfigProvider(), global: global}
}

// GetTimeout implements ConfigProvider
func (p *GlobalConfigProvider) GetTimeout(key string, defaultValue time.Duration) time.Duration {
	switch key {
	case EnvDownloadTimeout:
		if d := p.global.DownloadTimeoutDuration(); d > 0 {
			defaultValue = d
		}
	case EnvAPITimeout:
		if d := p.global.APITimeoutDuration(); d > 0 {
			defaultValue = d
		}
	}
	return p.env.GetTimeout(key, defaultValue)
}

// GetInt implements ConfigProvider
func (p *GlobalConfigProvider) GetInt(key string, defaultValue int) int {
	return p.env.GetInt(key, defaultValue)
}

// GetBool implements ConfigProvider
func (p *GlobalConfigProvider) GetBool(key string, defaultValue bool) bool {
	if key == EnvNoColor && p.global.NoColor {
		defaultValue = true
	}
	return p.env.GetBool(key, defaultValue)
}

// DownloadConfigProvider provides download-specific configuration
type DownloadConfigProvider struct {
	configProvider ConfigProvider
}

// NewDownloadConfigProvider creates a new download config provider
func NewDownloadConfigProvider(configProvider ConfigProvider) *DownloadConfigProvider {
	return &DownloadConfigProvider{
		configProvider: configProvider,
	}
}

// GetDownloadTimeout returns the timeout for a whole artifact download
func (p *DownloadConfigProvider) GetDownloadTimeout() time.Duration {
	return p.configProvider.GetTimeout(EnvDownloadTimeout, DefaultDownloadTimeout)
}

// GetAPITimeout returns the timeout for a release-metadata request
func (p *DownloadConfigProvider) GetAPITimeout() time.Duration {
	return p.configProvider.GetTimeout(EnvAPITimeout, DefaultAPITimeout)
}

// GetTLSTimeout returns the TLS timeout
func (p *DownloadConfigProvider) GetTLSTimeout() time.Duration {
	return p.configProvider.GetTimeout(EnvTLSTimeout, DefaultTLSTimeout)
}

// GetResponseTimeout returns the response timeout
func (p *DownloadConfigProvider) GetResponseTimeout() time.Duration {
	return p.configProvider.GetTimeout(EnvResponseTimeout, DefaultResponseTimeout)
}

// GetIdleTimeout returns the idle timeout
func (p *DownloadConfigProvider) GetIdleTimeout() time.Duration {
	return p.configProvider.GetTimeout(EnvIdleTimeout, DefaultIdleTimeout)
}

// GetMinFileSize returns the minimum file size
func (p *DownloadConfigProvider) GetMinFileSize() int64 {
	return int64(p.configProvider.GetInt(EnvMinFileSize, DefaultMinFileSize))
}

// GetMaxFileSize returns the maximum file size
func (p *DownloadConfigProvider) GetMaxFileSize() int64 {
	return int64(p.configProvider.GetInt(EnvMaxFileSize, DefaultMaxFileSize))
}

// IsColorDisabled returns whether color output is disabled
func (p *DownloadConfigProvider) IsColorDisabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return p.configProvider.GetBool(EnvNoColor, false)
}
