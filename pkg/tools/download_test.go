package tools

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ddokubi/language-revamp/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipPayload(size int) []byte {
	data := make([]byte, size)
	data[0], data[1] = 0x1f, 0x8b
	return data
}

func testDownloadConfig(t *testing.T) *DownloadConfigProvider {
	t.Helper()
	t.Setenv(EnvMinFileSize, "16")
	return NewDownloadConfigProvider(NewEnvironmentConfigProvider())
}

func TestHTTPDownloader_Download(t *testing.T) {
	payload := gzipPayload(4096)
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Write(payload)
	}))
	defer server.Close()

	cfg := testDownloadConfig(t)
	var out bytes.Buffer
	d := NewHTTPDownloader(server.Client(), cfg, nil, &out, util.NewNoop())

	dest := filepath.Join(t.TempDir(), "go.tar.gz")
	result, err := d.Download(context.Background(), server.URL+"/go1.22.1.linux-amd64.tar.gz", dest)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), result.Size)
	assert.Equal(t, UserAgent, userAgent)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestHTTPDownloader_SingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := NewHTTPDownloader(server.Client(), testDownloadConfig(t), nil, &bytes.Buffer{}, nil)
	_, err := d.Download(context.Background(), server.URL+"/node.tar.gz", filepath.Join(t.TempDir(), "node.tar.gz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
	assert.Equal(t, 1, calls, "downloads must not be retried")
}

func TestHTTPDownloader_URLReplacement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dl/go.tar.gz" {
			http.NotFound(w, r)
			return
		}
		w.Write(gzipPayload(64))
	}))
	defer server.Close()

	replacer := NewURLReplacer(map[string]string{"https://go.dev": server.URL})
	var out bytes.Buffer
	d := NewHTTPDownloader(server.Client(), testDownloadConfig(t), replacer, &out, nil)

	_, err := d.Download(context.Background(), "https://go.dev/dl/go.tar.gz", filepath.Join(t.TempDir(), "go.tar.gz"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Using URL replacement")
}

func TestHTTPDownloader_RejectsErrorPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html><body>mirror maintenance in progress</body></html>"))
	}))
	defer server.Close()

	d := NewHTTPDownloader(server.Client(), testDownloadConfig(t), nil, &bytes.Buffer{}, nil)
	_, err := d.Download(context.Background(), server.URL+"/go.tar.gz", filepath.Join(t.TempDir(), "go.tar.gz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTML content")
}

func TestHTTPDownloader_TooSmall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0x1f, 0x8b})
	}))
	defer server.Close()

	d := NewHTTPDownloader(server.Client(), testDownloadConfig(t), nil, &bytes.Buffer{}, nil)
	_, err := d.Download(context.Background(), server.URL+"/go.tar.gz", filepath.Join(t.TempDir(), "go.tar.gz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestValidateFileFormat(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		header  []byte
		wantErr bool
	}{
		{"gzip tarball", "https://go.dev/dl/go.tar.gz", []byte{0x1f, 0x8b, 0x08, 0x00}, false},
		{"bad tarball", "https://go.dev/dl/go.tar.gz", []byte{0x00, 0x01, 0x02, 0x03}, true},
		{"msi", "https://go.dev/dl/go.msi", append(append([]byte{}, msiMagic...), 0x00), false},
		{"bad msi", "https://go.dev/dl/go.msi", []byte("MZ\x90\x00\x03\x00"), true},
		{"zip", "https://example.com/a.zip", []byte{0x50, 0x4b, 0x03, 0x04}, false},
		{"unknown extension gzip", "https://example.com/download", []byte{0x1f, 0x8b, 0x08, 0x00}, false},
		{"json error", "https://example.com/download", []byte(`{"message": "Not Found"}`), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "artifact")
			require.NoError(t, os.WriteFile(path, tt.header, 0644))
			err := validateFileFormat(path, tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDiagnoseDownloadError(t *testing.T) {
	tests := []struct {
		err      string
		contains string
	}{
		{"dial tcp: connection refused", "Connection refused"},
		{"context deadline exceeded", "timeout"},
		{"lookup go.dev: no such host", "DNS resolution failed"},
		{"HTTP 404: 404 Not Found", "not found (404)"},
		{"something odd", "Download failed from"},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			msg := DiagnoseDownloadError("https://go.dev/dl/x", errors.New(tt.err))
			if !strings.Contains(strings.ToLower(msg), strings.ToLower(tt.contains)) {
				t.Errorf("Expected %q in %q", tt.contains, msg)
			}
		})
	}
}
