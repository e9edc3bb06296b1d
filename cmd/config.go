package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ddokubi/language-revamp/pkg/config"
	"github.com/ddokubi/language-revamp/pkg/tools"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global language-revamp configuration",
	Long: `Manage global configuration including URL replacements for mirrors and
enterprise networks.

The global configuration is stored in ~/.language-revamp/config.yml (TOML,
JSON5 and JSON files are read too) and applies to every command.

Examples:
  language-revamp config show
  language-revamp config set-url-replacement go.dev/dl mirror.mycompany.net/go
  language-revamp config set-url-replacement "regex:^http://(.+)" "https://$1"
  language-revamp config remove-url-replacement go.dev/dl
  language-revamp config clear-url-replacements`,
}

// configShowCmd shows the current global configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current global configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if err := showGlobalConfig(); err != nil {
			printError("Failed to show global configuration: %v", err)
			os.Exit(1)
		}
	},
}

// configPathCmd prints the configuration file location
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the global configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.GetGlobalConfigPath()
		if err != nil {
			printError("%v", err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	},
}

// configSetURLReplacementCmd sets a URL replacement
var configSetURLReplacementCmd = &cobra.Command{
	Use:   "set-url-replacement <pattern> <replacement>",
	Short: "Set a URL replacement pattern",
	Long: `Set a URL replacement pattern applied to every download and release
metadata request.

Examples:
  # Simple prefix replacement
  language-revamp config set-url-replacement nodejs.org/dist nexus.mycompany.net/nodejs

  # Regex replacement (upgrade HTTP to HTTPS)
  language-revamp config set-url-replacement "regex:^http://(.+)" "https://$1"

  # GitHub releases mirror for Temurin builds
  language-revamp config set-url-replacement "regex:https://github\\.com/([^/]+)/([^/]+)/releases/download/(.+)" "https://hub.corp.com/artifactory/github/$1/$2/$3"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setURLReplacement(args[0], args[1]); err != nil {
			printError("Failed to set URL replacement: %v", err)
			os.Exit(1)
		}
	},
}

// configRemoveURLReplacementCmd removes a URL replacement
var configRemoveURLReplacementCmd = &cobra.Command{
	Use:   "remove-url-replacement <pattern>",
	Short: "Remove a URL replacement pattern",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := removeURLReplacement(args[0]); err != nil {
			printError("Failed to remove URL replacement: %v", err)
			os.Exit(1)
		}
	},
}

// configClearURLReplacementsCmd clears all URL replacements
var configClearURLReplacementsCmd = &cobra.Command{
	Use:   "clear-url-replacements",
	Short: "Clear all URL replacement patterns",
	Run: func(cmd *cobra.Command, args []string) {
		if err := clearURLReplacements(); err != nil {
			printError("Failed to clear URL replacements: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetURLReplacementCmd)
	configCmd.AddCommand(configRemoveURLReplacementCmd)
	configCmd.AddCommand(configClearURLReplacementsCmd)
}

func showGlobalConfig() error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return err
	}

	configPath, err := config.GetGlobalConfigPath()
	if err != nil {
		return err
	}

	printInfo("Global configuration (%s):", configPath)
	printInfo("")

	if len(cfg.URLReplacements) == 0 {
		printInfo("No URL replacements configured.")
	} else {
		printInfo("URL Replacements:")
		patterns := make([]string, 0, len(cfg.URLReplacements))
		for pattern := range cfg.URLReplacements {
			patterns = append(patterns, pattern)
		}
		sort.Strings(patterns)
		for _, pattern := range patterns {
			if strings.HasPrefix(pattern, tools.RegexPrefix) {
				printInfo("  %s -> %s (regex)", pattern, cfg.URLReplacements[pattern])
			} else {
				printInfo("  %s -> %s", pattern, cfg.URLReplacements[pattern])
			}
		}
	}

	printInfo("")
	printInfo("Download timeout: %s", orDefault(cfg.DownloadTimeout, tools.DefaultDownloadTimeout.String()))
	printInfo("API timeout:      %s", orDefault(cfg.APITimeout, tools.DefaultAPITimeout.String()))
	if cfg.NoColor {
		printInfo("Colors:           disabled")
	}
	if cfg.NVMDir != "" {
		printInfo("nvm directory:    %s", cfg.NVMDir)
	}
	return nil
}

func orDefault(value, def string) string {
	if value == "" {
		return def + " (default)"
	}
	return value
}

func setURLReplacement(pattern, replacement string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return err
	}

	if cfg.URLReplacements == nil {
		cfg.URLReplacements = make(map[string]string)
	}

	if strings.HasPrefix(pattern, tools.RegexPrefix) {
		replacer := tools.NewURLReplacer(map[string]string{pattern: replacement})
		if errs := replacer.ValidateReplacements(); len(errs) > 0 {
			return fmt.Errorf("invalid regex pattern: %v", errs[0])
		}
	}

	cfg.URLReplacements[pattern] = replacement

	if err := config.SaveGlobalConfig(cfg); err != nil {
		return err
	}

	printSuccess("✅ URL replacement added: %s -> %s", pattern, replacement)
	if strings.HasPrefix(pattern, tools.RegexPrefix) {
		printInfo("   Pattern type: regex")
	} else {
		printInfo("   Pattern type: simple string replacement")
	}
	return nil
}

func removeURLReplacement(pattern string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return err
	}

	if len(cfg.URLReplacements) == 0 {
		printInfo("No URL replacements configured.")
		return nil
	}

	if _, exists := cfg.URLReplacements[pattern]; !exists {
		printInfo("URL replacement pattern '%s' not found.", pattern)
		return nil
	}

	delete(cfg.URLReplacements, pattern)

	if err := config.SaveGlobalConfig(cfg); err != nil {
		return err
	}

	printSuccess("✅ URL replacement removed: %s", pattern)
	return nil
}

func clearURLReplacements() error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return err
	}

	if len(cfg.URLReplacements) == 0 {
		printInfo("No URL replacements configured.")
		return nil
	}

	count := len(cfg.URLReplacements)
	cfg.URLReplacements = make(map[string]string)

	if err := config.SaveGlobalConfig(cfg); err != nil {
		return err
	}

	printSuccess("✅ Cleared %d URL replacement(s)", count)
	return nil
}
