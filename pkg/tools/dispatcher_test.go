package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_UnknownToolchain(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, failOnRequest(t))

	err := env.manager.Dispatch(context.Background(), Request{Toolchain: "cobol", Action: ActionCheck})
	assert.ErrorIs(t, err, ErrUnknownToolchain)
}

func TestDispatch_Check(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, failOnRequest(t))

	for _, name := range ToolchainNames() {
		require.NoError(t, env.manager.Dispatch(context.Background(), Request{Toolchain: name, Action: ActionCheck}))
	}
	assert.Contains(t, env.out.String(), "❌ Go is not installed")
	assert.Contains(t, env.out.String(), "❌ Java is not installed")
	assert.Contains(t, env.out.String(), "❌ No Python installation found")
	assert.Empty(t, env.runner.calls)
}

func TestDispatch_InstallUnknownPlatform(t *testing.T) {
	env := newTestEnv(t, unknownOS, failOnRequest(t))

	for _, name := range ToolchainNames() {
		err := env.manager.Dispatch(context.Background(), Request{Toolchain: name, Action: ActionInstall})
		assert.Equal(t, KindUnsupportedPlatform, KindOf(err), name)
	}
	assert.Empty(t, env.runner.queries)
	assert.Empty(t, env.runner.calls)
	assert.Empty(t, env.downloader.urls)
}

func TestDispatch_NodeUnknownPlatformWithNVM(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"install", Request{Toolchain: ToolNode, Action: ActionInstall}},
		{"update", Request{Toolchain: ToolNode, Action: ActionUpdate}},
		{"install with --nvm", Request{Toolchain: ToolNode, Action: ActionInstall, UseNVM: true}},
		{"update with --nvm", Request{Toolchain: ToolNode, Action: ActionUpdate, UseNVM: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, unknownOS, failOnRequest(t))
			env.fs["/home/dev/.nvm/nvm.sh"] = true

			err := env.manager.Dispatch(context.Background(), tt.req)
			assert.Equal(t, KindUnsupportedPlatform, KindOf(err))
			assert.Empty(t, env.runner.queries)
			assert.Empty(t, env.runner.calls)
			assert.Empty(t, env.downloader.urls)
		})
	}
}

func TestNVM_UnknownPlatform(t *testing.T) {
	env := newTestEnv(t, unknownOS, failOnRequest(t))
	env.fs["/home/dev/.nvm/nvm.sh"] = true
	nvm := NewNVM(env.toolchain(t, ToolNode))

	_, err := nvm.InstallLatest(context.Background())
	assert.Equal(t, KindUnsupportedPlatform, KindOf(err))

	outcome, err := nvm.Update(context.Background())
	assert.Equal(t, KindUnsupportedPlatform, KindOf(err))
	assert.Equal(t, OutcomeNone, outcome)

	assert.Empty(t, env.runner.queries)
	assert.Empty(t, env.runner.calls)
}

func TestDispatch_NodeUsesNVMWhenPresent(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, nodeDistHandler(t, "artifact"))
	env.fs["/home/dev/.nvm/nvm.sh"] = true

	err := env.manager.Dispatch(context.Background(), Request{Toolchain: ToolNode, Action: ActionInstall})
	require.NoError(t, err)
	assert.Equal(t, []string{nvmScript("install 20.11.0")}, env.runner.calls)
	assert.Empty(t, env.downloader.urls)
}

func TestDispatch_NodeNVMRequestedButMissing(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, failOnRequest(t))

	err := env.manager.Dispatch(context.Background(), Request{Toolchain: ToolNode, Action: ActionUpdate, UseNVM: true})
	require.Error(t, err)
	assert.Equal(t, "NVM is not installed. Please install NVM or remove --nvm flag.", ErrorMessage(err))
}

func TestDispatch_NodeWithoutNVM(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, nodeDistHandler(t, "artifact"))

	err := env.manager.Dispatch(context.Background(), Request{Toolchain: ToolNode, Action: ActionInstall})
	require.NoError(t, err)
	assert.Len(t, env.downloader.urls, 1)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "check", ActionCheck.String())
	assert.Equal(t, "update", ActionUpdate.String())
	assert.Equal(t, "install", ActionInstall.String())
}
