package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ddokubi/language-revamp/pkg/util"
	"github.com/ddokubi/language-revamp/pkg/version"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// ErrNoMatchingRelease is returned when release metadata was fetched but no
// entry satisfies the selection rule.
var ErrNoMatchingRelease = errors.New("no release matches the selection rule")

// Registry looks up release metadata published by toolchain vendors
type Registry struct {
	httpClient  *http.Client
	github      *github.Client
	replacer    *URLReplacer
	apiTimeout  time.Duration
	logger      util.Logger
	goDevURL    string
	nodeDistURL string
	adoptiumURL string
	rustDistURL string
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithGoDevURL overrides the go.dev download base (for testing)
func WithGoDevURL(u string) RegistryOption { return func(r *Registry) { r.goDevURL = u } }

// WithNodeDistURL overrides the nodejs.org dist base (for testing)
func WithNodeDistURL(u string) RegistryOption { return func(r *Registry) { r.nodeDistURL = u } }

// WithAdoptiumURL overrides the Adoptium API base (for testing)
func WithAdoptiumURL(u string) RegistryOption { return func(r *Registry) { r.adoptiumURL = u } }

// WithRustDistURL overrides the Rust dist base (for testing)
func WithRustDistURL(u string) RegistryOption { return func(r *Registry) { r.rustDistURL = u } }

// WithGitHubClient overrides the GitHub client (for testing)
func WithGitHubClient(c *github.Client) RegistryOption { return func(r *Registry) { r.github = c } }

// NewRegistry creates a registry. If GITHUB_TOKEN is set, GitHub requests
// are authenticated.
func NewRegistry(client *http.Client, configProvider *DownloadConfigProvider, replacer *URLReplacer, logger util.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = util.NewNoop()
	}
	if client == nil {
		client = http.DefaultClient
	}

	var githubHTTPClient *http.Client
	if token := os.Getenv(EnvGitHubToken); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		githubHTTPClient = oauth2.NewClient(context.Background(), ts)
	}

	r := &Registry{
		httpClient:  client,
		github:      github.NewClient(githubHTTPClient),
		replacer:    replacer,
		apiTimeout:  configProvider.GetAPITimeout(),
		logger:      logger,
		goDevURL:    GoDevBase,
		nodeDistURL: NodeJSDistBase,
		adoptiumURL: AdoptiumAPIBase,
		rustDistURL: RustDistBase,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// GoDevURL returns the go.dev download base
func (r *Registry) GoDevURL() string { return r.goDevURL }

// NodeDistURL returns the nodejs.org dist base
func (r *Registry) NodeDistURL() string { return r.nodeDistURL }

// getJSON fetches url and decodes the JSON body into v
func (r *Registry) getJSON(ctx context.Context, url string, v interface{}) error {
	body, err := r.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}

// cancelOnClose releases the request context when the body is closed
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func (r *Registry) get(ctx context.Context, url string) (io.ReadCloser, error) {
	url = r.replacer.ApplyReplacements(url)
	r.logger.Debug("fetching release metadata", "url", url)

	ctx, cancel := context.WithTimeout(ctx, r.apiTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("request to %s returned HTTP %d", url, resp.StatusCode)
	}
	return cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// goRelease is an entry of https://go.dev/dl/?mode=json
type goRelease struct {
	Version string   `json:"version"`
	Stable  bool     `json:"stable"`
	Files   []goFile `json:"files"`
}

type goFile struct {
	Filename string `json:"filename"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	SHA256   string `json:"sha256"`
	Kind     string `json:"kind"`
}

// LatestGo returns the version of the first stable Go release (e.g. "go1.22.1")
func (r *Registry) LatestGo(ctx context.Context) (string, error) {
	var releases []goRelease
	if err := r.getJSON(ctx, r.goDevURL+"/?mode=json", &releases); err != nil {
		return "", err
	}

	for _, release := range releases {
		if release.Stable && release.Version != "" {
			return release.Version, nil
		}
	}
	return "", fmt.Errorf("%w: no stable Go release listed", ErrNoMatchingRelease)
}

// GoChecksum returns the published sha256 of a Go release file
func (r *Registry) GoChecksum(ctx context.Context, goVersion, filename string) (string, error) {
	var releases []goRelease
	if err := r.getJSON(ctx, r.goDevURL+"/?mode=json&include=all", &releases); err != nil {
		return "", err
	}

	for _, release := range releases {
		if release.Version != goVersion {
			continue
		}
		for _, file := range release.Files {
			if file.Filename == filename && file.SHA256 != "" {
				return file.SHA256, nil
			}
		}
	}
	return "", fmt.Errorf("no checksum published for %s", filename)
}

// nodeRelease is an entry of https://nodejs.org/dist/index.json
type nodeRelease struct {
	Version string `json:"version"`
	// LTS is false for current releases and the codename string for LTS lines
	LTS interface{} `json:"lts"`
}

func (n nodeRelease) isLTS() bool {
	switch v := n.LTS.(type) {
	case bool:
		return v
	case string:
		return v != ""
	default:
		return false
	}
}

// LatestNodeLTS returns the first LTS release without its "v" prefix
func (r *Registry) LatestNodeLTS(ctx context.Context) (string, error) {
	var releases []nodeRelease
	if err := r.getJSON(ctx, r.nodeDistURL+"/index.json", &releases); err != nil {
		return "", err
	}

	for _, release := range releases {
		if release.isLTS() {
			return strings.TrimPrefix(release.Version, "v"), nil
		}
	}
	return "", fmt.Errorf("%w: no Node.js LTS release listed", ErrNoMatchingRelease)
}

// LatestJavaLTS returns the highest long-term-support feature release
func (r *Registry) LatestJavaLTS(ctx context.Context) (string, error) {
	var releases struct {
		AvailableLTSReleases []int `json:"available_lts_releases"`
	}
	if err := r.getJSON(ctx, r.adoptiumURL+"/info/available_releases", &releases); err != nil {
		return "", err
	}

	majors := make([]string, 0, len(releases.AvailableLTSReleases))
	for _, major := range releases.AvailableLTSReleases {
		majors = append(majors, strconv.Itoa(major))
	}
	if latest := version.Max(majors); latest != "" {
		return latest, nil
	}
	return "", fmt.Errorf("%w: no Java LTS release listed", ErrNoMatchingRelease)
}

// TemurinRelease identifies a Temurin JDK build and its installer asset
type TemurinRelease struct {
	Tag         string // e.g. "jdk-21.0.5+11", also the extracted directory name
	AssetName   string
	URL         string
	ChecksumURL string
}

// TemurinAsset resolves the latest Temurin JDK build for a feature release.
// osName and arch use Adoptium naming (linux, mac, windows; x64, aarch64).
func (r *Registry) TemurinAsset(ctx context.Context, major, osName, arch, ext string) (*TemurinRelease, error) {
	repo := fmt.Sprintf("temurin%s-binaries", major)
	r.logger.Debug("resolving Temurin release", "repo", TemurinOwner+"/"+repo)

	release, _, err := r.github.Repositories.GetLatestRelease(ctx, TemurinOwner, repo)
	if err != nil {
		var rateLimitErr *github.RateLimitError
		if errors.As(err, &rateLimitErr) {
			return nil, fmt.Errorf("GitHub API rate limit exceeded (resets at %s); set %s to raise the limit: %w",
				rateLimitErr.Rate.Reset.Time.Format(time.Kitchen), EnvGitHubToken, err)
		}
		return nil, fmt.Errorf("failed to fetch latest release of %s/%s: %w", TemurinOwner, repo, err)
	}

	prefix := fmt.Sprintf("OpenJDK%sU-jdk_%s_%s_hotspot_", major, arch, osName)
	var result *TemurinRelease
	checksums := make(map[string]string)
	for _, asset := range release.Assets {
		name := asset.GetName()
		if strings.HasSuffix(name, ".sha256.txt") {
			checksums[strings.TrimSuffix(name, ".sha256.txt")] = asset.GetBrowserDownloadURL()
			continue
		}
		if result == nil && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			result = &TemurinRelease{
				Tag:       release.GetTagName(),
				AssetName: name,
				URL:       asset.GetBrowserDownloadURL(),
			}
		}
	}

	if result == nil {
		return nil, fmt.Errorf("%w: no %s*%s asset in %s %s", ErrNoMatchingRelease, prefix, ext, repo, release.GetTagName())
	}
	result.ChecksumURL = checksums[result.AssetName]
	return result, nil
}

// rustChannelManifest is the subset of channel-rust-<channel>.toml we read
type rustChannelManifest struct {
	Pkg map[string]struct {
		Version string `toml:"version"`
	} `toml:"pkg"`
}

// RustChannelVersion returns the rustc version published on a channel
// (e.g. "stable" → "1.79.0").
func (r *Registry) RustChannelVersion(ctx context.Context, channel string) (string, error) {
	body, err := r.get(ctx, fmt.Sprintf("%s/channel-rust-%s.toml", r.rustDistURL, channel))
	if err != nil {
		return "", err
	}
	defer body.Close()

	var manifest rustChannelManifest
	if _, err := toml.NewDecoder(body).Decode(&manifest); err != nil {
		return "", fmt.Errorf("failed to decode rust %s channel manifest: %w", channel, err)
	}

	// "1.79.0 (129f3b996 2024-06-10)"
	fields := strings.Fields(manifest.Pkg["rust"].Version)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: rust %s manifest has no rust package version", ErrNoMatchingRelease, channel)
	}
	return fields[0], nil
}
