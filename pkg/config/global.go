package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// DirName is the name of the per-user configuration directory
const DirName = ".language-revamp"

// DefaultFileName is the file written when no configuration file exists yet
const DefaultFileName = "config.yml"

// configFiles lists candidate file names in order of preference
var configFiles = []string{
	"config.yml",
	"config.yaml",
	"config.toml",
	"config.json5",
	"config.json",
}

// GlobalConfig represents the per-user configuration
type GlobalConfig struct {
	URLReplacements map[string]string `json:"url_replacements,omitempty" yaml:"url_replacements,omitempty" toml:"url_replacements,omitempty"`
	DownloadTimeout string            `json:"download_timeout,omitempty" yaml:"download_timeout,omitempty" toml:"download_timeout,omitempty"`
	APITimeout      string            `json:"api_timeout,omitempty" yaml:"api_timeout,omitempty" toml:"api_timeout,omitempty"`
	NoColor         bool              `json:"no_color,omitempty" yaml:"no_color,omitempty" toml:"no_color,omitempty"`
	NVMDir          string            `json:"nvm_dir,omitempty" yaml:"nvm_dir,omitempty" toml:"nvm_dir,omitempty"`
}

// DownloadTimeoutDuration returns the configured download timeout, or 0 when
// unset or invalid.
func (c *GlobalConfig) DownloadTimeoutDuration() time.Duration {
	return parsePositiveDuration(c.DownloadTimeout)
}

// APITimeoutDuration returns the configured metadata timeout, or 0 when
// unset or invalid.
func (c *GlobalConfig) APITimeoutDuration() time.Duration {
	return parsePositiveDuration(c.APITimeout)
}

func parsePositiveDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// globalConfigDirFunc is a function variable that can be overridden for testing
var globalConfigDirFunc = getGlobalConfigDirImpl

func getGlobalConfigDir() (string, error) {
	return globalConfigDirFunc()
}

func getGlobalConfigDirImpl() (string, error) {
	var homeDir string
	var err error

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
		if homeDir == "" {
			homeDir = os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		}
	} else {
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
	}

	if homeDir == "" {
		return "", fmt.Errorf("unable to determine user home directory")
	}

	return filepath.Join(homeDir, DirName), nil
}

// LoadGlobalConfig loads the global configuration. A missing file is not an
// error and yields an empty configuration.
func LoadGlobalConfig() (*GlobalConfig, error) {
	configPath, err := findGlobalConfigFile()
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return &GlobalConfig{}, nil
	}
	return loadGlobalConfigFile(configPath)
}

// findGlobalConfigFile returns the first existing configuration file, or ""
func findGlobalConfigFile() (string, error) {
	configDir, err := getGlobalConfigDir()
	if err != nil {
		return "", err
	}

	for _, filename := range configFiles {
		configPath := filepath.Join(configDir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}
	return "", nil
}

func loadGlobalConfigFile(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read global config file %s: %w", path, err)
	}

	var config GlobalConfig

	switch ext := filepath.Ext(path); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &config)
	case ".toml":
		_, err = toml.Decode(string(data), &config)
	case ".json5", ".json":
		// json5 is a superset of json, so comments are accepted in both
		err = json5.Unmarshal(data, &config)
	default:
		return nil, fmt.Errorf("unsupported global config file format: %s", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse global config file %s: %w", path, err)
	}

	return &config, nil
}

// SaveGlobalConfig writes the configuration back to the active file, keeping
// its format, or to config.yml when none exists yet.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	configPath, err := GetGlobalConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create global config directory: %w", err)
	}

	content, err := encodeGlobalConfig(cfg, filepath.Ext(configPath))
	if err != nil {
		return fmt.Errorf("failed to encode global configuration: %w", err)
	}

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write global configuration file: %w", err)
	}

	return nil
}

func encodeGlobalConfig(cfg *GlobalConfig, ext string) ([]byte, error) {
	switch ext {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".json5", ".json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return yaml.Marshal(cfg)
	}
}

// GetGlobalConfigPath returns the path of the active configuration file, or
// the default location when none exists.
func GetGlobalConfigPath() (string, error) {
	configPath, err := findGlobalConfigFile()
	if err != nil {
		return "", err
	}
	if configPath != "" {
		return configPath, nil
	}

	configDir, err := getGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, DefaultFileName), nil
}

// GetGlobalConfigDir returns the configuration directory
func GetGlobalConfigDir() (string, error) {
	return getGlobalConfigDir()
}

// SetGlobalConfigDirFunc sets the global config directory function (for testing)
func SetGlobalConfigDirFunc(fn func() (string, error)) {
	globalConfigDirFunc = fn
}

// GetGlobalConfigDirFunc returns the current global config directory function (for testing)
func GetGlobalConfigDirFunc() func() (string, error) {
	return globalConfigDirFunc
}
