package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddokubi/language-revamp/pkg/tools"
)

func TestToolchainFlags_Action(t *testing.T) {
	tests := []struct {
		name     string
		flags    toolchainFlags
		expected tools.Action
		ok       bool
	}{
		{"none", toolchainFlags{}, 0, false},
		{"nvm alone", toolchainFlags{nvm: true}, 0, false},
		{"check", toolchainFlags{check: true}, tools.ActionCheck, true},
		{"update", toolchainFlags{update: true}, tools.ActionUpdate, true},
		{"install", toolchainFlags{install: true}, tools.ActionInstall, true},
		{"check wins", toolchainFlags{check: true, update: true, install: true}, tools.ActionCheck, true},
		{"update beats install", toolchainFlags{update: true, install: true}, tools.ActionUpdate, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := tt.flags.action()
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, action)
			}
		})
	}
}

func TestToolchainCmd_NoFlagPrintsUsage(t *testing.T) {
	for _, name := range tools.ToolchainNames() {
		t.Run(name, func(t *testing.T) {
			cmd := newToolchainCmd(name)
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{})

			require.NoError(t, cmd.Execute())
			assert.Contains(t, out.String(), "Usage: language-revamp "+name+" [--check|-c]")
			if name == tools.ToolNode {
				assert.Contains(t, out.String(), "[--nvm|-n]")
			} else {
				assert.NotContains(t, out.String(), "--nvm")
			}
		})
	}
}

func TestToolchainCmd_Flags(t *testing.T) {
	node := newToolchainCmd(tools.ToolNode)
	require.NoError(t, node.ParseFlags([]string{"--update-manual", "-n"}))
	assert.Equal(t, "true", node.Flags().Lookup("update").Value.String())
	assert.Equal(t, "true", node.Flags().Lookup("nvm").Value.String())
	assert.True(t, node.Flags().Lookup("update-manual").Hidden)

	golang := newToolchainCmd(tools.ToolGo)
	require.NoError(t, golang.ParseFlags([]string{"-d"}))
	assert.Equal(t, "true", golang.Flags().Lookup("install").Value.String())
	assert.Nil(t, golang.Flags().Lookup("nvm"))

	java := newToolchainCmd(tools.ToolJava)
	require.NoError(t, java.ParseFlags([]string{"-c", "-u"}))
	assert.Equal(t, "true", java.Flags().Lookup("check").Value.String())
	assert.NotNil(t, java.Flags().Lookup("update-manual"))
}

func TestToolchainCmd_RejectsArguments(t *testing.T) {
	cmd := newToolchainCmd(tools.ToolRust)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"stable"})
	assert.Error(t, cmd.Execute())
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range append(tools.ToolchainNames(), "version", "config") {
		assert.True(t, names[name], "missing subcommand %s", name)
	}
}
