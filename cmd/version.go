package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ddokubi/language-revamp/pkg/platform"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for language-revamp including version number,
commit hash, build date, and the detected platform.`,
	Run: func(cmd *cobra.Command, args []string) {
		showVersion()
	},
}

func showVersion() {
	fmt.Printf("language-revamp version %s\n", version)

	if verbose {
		fmt.Printf("Commit:      %s\n", commit)
		fmt.Printf("Built:       %s\n", date)
		fmt.Printf("Go version:  %s\n", runtime.Version())
		fmt.Printf("Platform:    %s\n", platform.Detect())
	}
}
