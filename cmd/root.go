package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ddokubi/language-revamp/pkg/config"
	"github.com/ddokubi/language-revamp/pkg/tools"
	"github.com/ddokubi/language-revamp/pkg/util"
)

var (
	// Version information set from main
	version = "dev"
	commit  = "unknown"
	date    = "unknown"

	// Global flags
	verbose bool
	quiet   bool
	debug   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "language-revamp",
	Short: "Check, install and update language toolchains",
	Long: `language-revamp checks, installs and updates the Go, Rust, Python, Node.js
and Java toolchains of this machine using each vendor's official channel.

Examples:
  language-revamp go --check        # Show the installed Go version
  language-revamp node --install    # Install the latest Node.js LTS
  language-revamp node -u --nvm     # Update Node.js through nvm
  language-revamp java --update     # Replace an older JDK with the latest LTS`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		util.SetDefault(util.NewText(os.Stderr, util.DetermineLevel(quiet, verbose || util.IsVerbose(), debug || util.IsDebug())))
	},

	// Show help if no command is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information from main
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	for _, name := range tools.ToolchainNames() {
		rootCmd.AddCommand(newToolchainCmd(name))
	}
}

// newManager loads the global configuration and wires a toolchain manager
// writing to stdout.
func newManager() (*tools.Manager, error) {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		printVerbose("Ignoring global configuration: %v", err)
		cfg = &config.GlobalConfig{}
	}

	provider := tools.NewDownloadConfigProvider(tools.NewGlobalConfigProvider(cfg))
	color := term.IsTerminal(int(os.Stdout.Fd())) && !provider.IsColorDisabled()

	return tools.NewManager(
		tools.WithGlobalConfig(cfg),
		tools.WithPrinter(tools.NewPrinter(os.Stdout, color, quiet)),
		tools.WithLogger(util.Default()),
	)
}

// Helper functions for output
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func printSuccess(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
