package tools

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/ddokubi/language-revamp/pkg/platform"
	"github.com/ddokubi/language-revamp/pkg/util"
)

var (
	linuxAMD64   = platform.Info{OS: platform.Linux, Arch: "amd64"}
	macARM64     = platform.Info{OS: platform.MacOS, Arch: "arm64"}
	windowsAMD64 = platform.Info{OS: platform.Windows, Arch: "amd64"}
	unknownOS    = platform.Info{OS: platform.Unknown, Arch: "amd64"}
)

// fakeRunner records commands and answers version queries from a table
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]Result
	codes   map[string]int
	queries []string
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{outputs: map[string]Result{}, codes: map[string]int{}}
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line := commandLine(name, args)
	f.queries = append(f.queries, line)
	if res, ok := f.outputs[line]; ok {
		return res, nil
	}
	return Result{}, errors.New("executable file not found")
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line := commandLine(name, args)
	f.calls = append(f.calls, line)
	return f.codes[line], nil
}

// fakeFS is a set of existing paths
type fakeFS map[string]bool

func (f fakeFS) Exists(p string) bool { return f[p] }

func (f fakeFS) Glob(pattern string) ([]string, error) {
	var matches []string
	for p := range f {
		ok, err := path.Match(pattern, p)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, p)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// fakeDownloader writes fixed content to the destination
type fakeDownloader struct {
	content []byte
	err     error
	urls    []string
	dests   []string
}

func (d *fakeDownloader) Download(_ context.Context, url, dest string) (*DownloadResult, error) {
	d.urls = append(d.urls, url)
	d.dests = append(d.dests, dest)
	if d.err != nil {
		return nil, d.err
	}
	if err := os.WriteFile(dest, d.content, 0644); err != nil {
		return nil, err
	}
	return &DownloadResult{Size: int64(len(d.content)), FinalURL: url}, nil
}

func lookPathTable(paths map[string]string) LookPathFunc {
	return func(name string) (string, error) {
		if p, ok := paths[name]; ok {
			return p, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

// failOnRequest is a registry handler for tests that must stay offline
func failOnRequest(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s", r.URL)
		http.Error(w, "unexpected", http.StatusInternalServerError)
	}
}

type testEnv struct {
	manager    *Manager
	runner     *fakeRunner
	fs         fakeFS
	downloader *fakeDownloader
	out        *bytes.Buffer
	paths      map[string]string
}

func newTestEnv(t *testing.T, p platform.Info, handler http.HandlerFunc, opts ...RegistryOption) *testEnv {
	t.Helper()
	registry, server := newTestRegistry(t, handler, opts...)
	env := &testEnv{
		runner:     newFakeRunner(),
		fs:         fakeFS{},
		downloader: &fakeDownloader{content: []byte("artifact")},
		out:        &bytes.Buffer{},
		paths:      map[string]string{},
	}
	m, err := NewManager(
		WithPlatform(p),
		WithRunner(env.runner),
		WithLookPath(lookPathTable(env.paths)),
		WithFileSystem(env.fs),
		WithRegistry(registry),
		WithDownloader(env.downloader),
		WithChecksumVerifier(NewChecksumVerifier(server.Client(), nil)),
		WithPrinter(NewPrinter(env.out, false, false)),
		WithLogger(util.NewNoop()),
		WithEnv(func(string) string { return "" }),
		WithTempDir(t.TempDir()),
		WithHomeDir("/home/dev"),
	)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	env.manager = m
	return env
}

func (e *testEnv) toolchain(t *testing.T, name string) *Toolchain {
	t.Helper()
	tc, err := e.manager.GetToolchain(name)
	if err != nil {
		t.Fatalf("GetToolchain(%s): %v", name, err)
	}
	return tc
}
