package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJavaVersion(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{`openjdk version "21.0.2" 2024-01-16`, "21"},
		{`openjdk version "17" 2021-09-14`, "17"},
		{`java version "1.8.0_401"`, "8"},
		{`openjdk version "22-ea" 2024-03-19`, "22"},
		{`openjdk version 21`, ""},
		{`openjdk version "21`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseJavaVersion(tt.line))
		})
	}
}

func TestJava_Check_ReadsStderr(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, failOnRequest(t))
	env.paths["java"] = "/usr/bin/java"
	env.runner.outputs["/usr/bin/java -version"] = Result{
		Stderr: "openjdk version \"17.0.10\" 2024-01-16\nOpenJDK Runtime Environment Temurin-17.0.10+7\n",
	}

	info, err := env.toolchain(t, ToolJava).Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "17", info.Version)
}

func TestJava_Check_WindowsShell(t *testing.T) {
	env := newTestEnv(t, windowsAMD64, failOnRequest(t))
	env.paths["java"] = `C:\Program Files\Eclipse Adoptium\jdk-21\bin\java.exe`
	env.runner.outputs["cmd /C java -version"] = Result{Stderr: `openjdk version "21.0.2" 2024-01-16`}

	info, err := env.toolchain(t, ToolJava).Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "21", info.Version)
}

func temurinServer(t *testing.T) *github.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/repos/adoptium/temurin21-binaries/releases/latest") {
			http.NotFound(w, r)
			return
		}
		release := &github.RepositoryRelease{TagName: github.String("jdk-21.0.5+11")}
		for _, name := range []string{
			"OpenJDK21U-jdk_x64_linux_hotspot_21.0.5_11.tar.gz",
			"OpenJDK21U-jdk_aarch64_mac_hotspot_21.0.5_11.tar.gz",
			"OpenJDK21U-jdk_x64_windows_hotspot_21.0.5_11.msi",
		} {
			release.Assets = append(release.Assets, &github.ReleaseAsset{
				Name:               github.String(name),
				BrowserDownloadURL: github.String("https://downloads.example.test/" + name),
			})
		}
		json.NewEncoder(w).Encode(release)
	}))
	t.Cleanup(server.Close)

	client, err := github.NewClient(nil).WithEnterpriseURLs(server.URL, server.URL)
	require.NoError(t, err)
	return client
}

func adoptiumHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/info/available_releases" {
			t.Errorf("unexpected request: %s", r.URL)
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"available_lts_releases": [8, 11, 17, 21], "most_recent_feature_release": 23}`))
	}
}

func TestJava_InstallLatest_Linux(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, adoptiumHandler(t), WithGitHubClient(temurinServer(t)))

	v, err := env.toolchain(t, ToolJava).InstallLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "21", v)
	assert.Equal(t, []string{"https://downloads.example.test/OpenJDK21U-jdk_x64_linux_hotspot_21.0.5_11.tar.gz"}, env.downloader.urls)
	assert.Equal(t, []string{
		"sudo tar -C /usr/local -xzf " + env.downloader.dests[0],
		"sudo ln -sf /usr/local/jdk-21.0.5+11/bin/java /usr/local/bin/java",
		"sudo ln -sf /usr/local/jdk-21.0.5+11/bin/javac /usr/local/bin/javac",
	}, env.runner.calls)
}

func TestJava_Install_MacOS(t *testing.T) {
	env := newTestEnv(t, macARM64, adoptiumHandler(t), WithGitHubClient(temurinServer(t)))

	require.NoError(t, env.toolchain(t, ToolJava).Install(context.Background(), "21"))
	assert.Contains(t, env.runner.calls,
		"sudo ln -sf /usr/local/jdk-21.0.5+11/Contents/Home/bin/java /usr/local/bin/java")
}

func TestJava_Install_Windows(t *testing.T) {
	env := newTestEnv(t, windowsAMD64, adoptiumHandler(t), WithGitHubClient(temurinServer(t)))

	require.NoError(t, env.toolchain(t, ToolJava).Install(context.Background(), "21"))
	require.Len(t, env.runner.calls, 1)
	assert.True(t, strings.HasPrefix(env.runner.calls[0], "msiexec /i "+env.downloader.dests[0]+" ADDLOCAL="))
}

func TestJava_Install_UnknownMajor(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, adoptiumHandler(t), WithGitHubClient(temurinServer(t)))

	err := env.toolchain(t, ToolJava).Install(context.Background(), "17")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Empty(t, env.downloader.urls)
}

func TestJava_Uninstall_RemovesEveryJDK(t *testing.T) {
	env := newTestEnv(t, linuxAMD64, failOnRequest(t))
	env.fs["/usr/local/jdk-17.0.10+7"] = true
	env.fs["/usr/local/jdk-21.0.5+11"] = true
	env.fs["/usr/local/bin/java"] = true

	require.NoError(t, env.toolchain(t, ToolJava).Uninstall(context.Background()))
	assert.Equal(t, []string{
		"sudo rm -rf /usr/local/jdk-17.0.10+7",
		"sudo rm -rf /usr/local/jdk-21.0.5+11",
		"sudo rm -rf /usr/local/bin/java",
	}, env.runner.calls)
}

func TestJava_Uninstall_Windows(t *testing.T) {
	env := newTestEnv(t, windowsAMD64, failOnRequest(t))
	env.runner.codes["wmic product where name like 'Eclipse Temurin%' call uninstall /nointeractive"] = 1
	env.fs[`C:\Program Files\Eclipse Adoptium`] = true
	env.fs[`C:\Program Files\Java`] = true

	require.NoError(t, env.toolchain(t, ToolJava).Uninstall(context.Background()))
	assert.Equal(t, []string{
		"wmic product where name like 'Eclipse Temurin%' call uninstall /nointeractive",
		`cmd /C rmdir /S /Q C:\Program Files\Eclipse Adoptium`,
		`cmd /C rmdir /S /Q C:\Program Files\Java`,
	}, env.runner.calls)
}
