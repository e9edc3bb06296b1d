package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ddokubi/language-revamp/pkg/tools"
)

// toolchainFlags are the action flags of a toolchain subcommand
type toolchainFlags struct {
	check   bool
	update  bool
	install bool
	nvm     bool
}

// action returns the requested action. When several flags are given the
// first in the order check, update, install wins.
func (f toolchainFlags) action() (tools.Action, bool) {
	switch {
	case f.check:
		return tools.ActionCheck, true
	case f.update:
		return tools.ActionUpdate, true
	case f.install:
		return tools.ActionInstall, true
	default:
		return 0, false
	}
}

var displayNames = map[string]string{
	tools.ToolGo:     "Go",
	tools.ToolRust:   "Rust",
	tools.ToolPython: "Python",
	tools.ToolNode:   "Node.js",
	tools.ToolJava:   "Java",
}

func newToolchainCmd(name string) *cobra.Command {
	var flags toolchainFlags
	display := displayNames[name]

	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Check, install or update %s", display),
		Long: fmt.Sprintf(`Check, install or update %[1]s.

Only one action runs per invocation; when several flags are given the first
of --check, --update and --install wins.

Examples:
  language-revamp %[2]s --check
  language-revamp %[2]s --update
  language-revamp %[2]s --install`, display, name),
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runToolchain(cmd.Context(), cmd.OutOrStdout(), name, flags)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&flags.check, "check", "c", false, fmt.Sprintf("show the installed %s version", display))
	f.BoolVarP(&flags.update, "update", "u", false, fmt.Sprintf("update %s to the latest release, installing it if absent", display))
	f.BoolVarP(&flags.install, "install", "i", false, fmt.Sprintf("install the latest %s release", display))

	switch name {
	case tools.ToolNode:
		f.BoolVarP(&flags.nvm, "nvm", "n", false, "install or update through nvm")
		hiddenAlias(f, &flags.update, "update-manual", "", "update")
	case tools.ToolJava:
		hiddenAlias(f, &flags.update, "update-manual", "", "update")
	case tools.ToolGo:
		hiddenAlias(f, &flags.install, "download", "d", "install")
	}

	return cmd
}

// hiddenAlias binds a legacy flag name to the same variable as an action flag.
func hiddenAlias(f *pflag.FlagSet, target *bool, name, short, of string) {
	f.BoolVarP(target, name, short, false, "alias of --"+of)
	if err := f.MarkHidden(name); err != nil {
		panic(err)
	}
}

func usageHint(name string) string {
	hint := fmt.Sprintf("Usage: language-revamp %s [--check|-c] [--update|-u] [--install|-i]", name)
	if name == tools.ToolNode {
		hint += " [--nvm|-n]"
	}
	return hint
}

// runToolchain dispatches the request. Failures are reported on stderr and
// never change the exit status.
func runToolchain(ctx context.Context, out io.Writer, name string, flags toolchainFlags) {
	action, ok := flags.action()
	if !ok {
		fmt.Fprintln(out, usageHint(name))
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	manager, err := newManager()
	if err != nil {
		printError("%v", err)
		return
	}

	printVerbose("Running %s %s on %s", name, action, manager.Platform())
	err = manager.Dispatch(ctx, tools.Request{Toolchain: name, Action: action, UseNVM: flags.nvm})
	if err != nil {
		printError("%s", tools.ErrorMessage(err))
	}
}
