package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/util"
)

// Downloader fetches installer artifacts to a local path
type Downloader interface {
	Download(ctx context.Context, url, destPath string) (*DownloadResult, error)
}

// DownloadResult contains information about the download
type DownloadResult struct {
	Size        int64
	ContentType string
	FinalURL    string
}

// NewHTTPClient creates the HTTP client shared by metadata lookups and
// downloads, with granular transport timeouts and a redirect limit.
func NewHTTPClient(configProvider *DownloadConfigProvider) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			TLSHandshakeTimeout:   configProvider.GetTLSTimeout(),
			ResponseHeaderTimeout: configProvider.GetResponseTimeout(),
			IdleConnTimeout:       configProvider.GetIdleTimeout(),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

// HTTPDownloader downloads artifacts over HTTP. Every download is attempted
// exactly once.
type HTTPDownloader struct {
	client         *http.Client
	configProvider *DownloadConfigProvider
	replacer       *URLReplacer
	output         io.Writer
	logger         util.Logger
	showProgress   bool
}

// NewHTTPDownloader creates a downloader. Status lines are written to output;
// a progress bar is drawn only when output is a terminal.
func NewHTTPDownloader(client *http.Client, configProvider *DownloadConfigProvider, replacer *URLReplacer, output io.Writer, logger util.Logger) *HTTPDownloader {
	if logger == nil {
		logger = util.NewNoop()
	}
	return &HTTPDownloader{
		client:         client,
		configProvider: configProvider,
		replacer:       replacer,
		output:         output,
		logger:         logger,
		showProgress:   isTerminalWriter(output),
	}
}

// Download implements Downloader
func (d *HTTPDownloader) Download(ctx context.Context, url, destPath string) (*DownloadResult, error) {
	if replaced := d.replacer.ApplyReplacements(url); replaced != url {
		fmt.Fprintf(d.output, "  🔄 Using URL replacement: %s\n", replaced)
		url = replaced
	}

	ctx, cancel := context.WithTimeout(ctx, d.configProvider.GetDownloadTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	d.logger.Debug("downloading artifact", "url", url, "dest", destPath)
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	minSize := d.configProvider.GetMinFileSize()
	maxSize := d.configProvider.GetMaxFileSize()
	if contentLength := resp.ContentLength; contentLength > 0 {
		if contentLength < minSize {
			return nil, fmt.Errorf("content too small: %d bytes (minimum %d)", contentLength, minSize)
		}
		if contentLength > maxSize {
			return nil, fmt.Errorf("content too large: %d bytes (maximum %d)", contentLength, maxSize)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}
	file, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	var dest io.Writer = file
	var progress *progressWriter
	if d.showProgress {
		progress = newProgressWriter(file, resp.ContentLength, filepath.Base(destPath), d.output)
		dest = progress
	}

	written, err := io.Copy(dest, io.LimitReader(resp.Body, maxSize+1))
	if progress != nil {
		progress.Finish()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	if written < minSize {
		return nil, fmt.Errorf("downloaded file too small: %d bytes (minimum %d)", written, minSize)
	}
	if written > maxSize {
		return nil, fmt.Errorf("downloaded file too large: more than %d bytes", maxSize)
	}

	if err := validateFileFormat(destPath, url); err != nil {
		return nil, fmt.Errorf("file validation failed: %w", err)
	}

	return &DownloadResult{
		Size:        written,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// validateFileFormat validates the downloaded file format based on magic bytes
func validateFileFormat(filePath, url string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file for validation: %w", err)
	}
	defer file.Close()

	header := make([]byte, 512)
	n, err := file.Read(header)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	switch {
	case strings.HasSuffix(url, ExtTarGz) || strings.HasSuffix(url, ExtTgz):
		return validateGzip(header)
	case strings.HasSuffix(url, ExtZip):
		return validateZip(header)
	case strings.HasSuffix(url, ExtMsi):
		return validateMsi(header)
	}

	return validateAnyArchive(header)
}

// validateGzip checks for the gzip magic bytes (1f 8b)
func validateGzip(header []byte) error {
	if len(header) < 2 || header[0] != 0x1f || header[1] != 0x8b {
		if err := detectErrorPage(header); err != nil {
			return err
		}
		return fmt.Errorf("invalid gzip header")
	}
	return nil
}

// validateZip checks for the ZIP magic bytes (50 4b)
func validateZip(header []byte) error {
	if len(header) < 4 {
		return fmt.Errorf("file too short for ZIP format")
	}
	if header[0] != 0x50 || header[1] != 0x4b {
		return fmt.Errorf("invalid ZIP header: expected 50 4b, got %02x %02x", header[0], header[1])
	}
	return nil
}

// msiMagic is the OLE compound document signature used by MSI packages
var msiMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// validateMsi checks for the OLE compound document signature
func validateMsi(header []byte) error {
	if !bytes.HasPrefix(header, msiMagic) {
		if err := detectErrorPage(header); err != nil {
			return err
		}
		return fmt.Errorf("invalid MSI header")
	}
	return nil
}

// validateAnyArchive accepts any known archive or installer format
func validateAnyArchive(header []byte) error {
	if len(header) < 4 {
		return fmt.Errorf("file too short to determine format")
	}

	if header[0] == 0x1f && header[1] == 0x8b {
		return nil // gzip
	}
	if header[0] == 0x50 && header[1] == 0x4b {
		return nil // ZIP
	}
	if bytes.HasPrefix(header, msiMagic) {
		return nil // MSI
	}
	if err := detectErrorPage(header); err != nil {
		return err
	}
	return fmt.Errorf("unrecognized file format")
}

// detectErrorPage recognizes HTML and JSON bodies served in place of a binary
func detectErrorPage(header []byte) error {
	prefix := header[:min(len(header), 100)]
	if bytes.Contains(prefix, []byte("<html")) || bytes.Contains(prefix, []byte("<!DOCTYPE")) {
		return fmt.Errorf("received HTML content instead of binary archive (likely an error page)")
	}
	if bytes.HasPrefix(bytes.TrimSpace(header), []byte("{")) {
		return fmt.Errorf("received JSON content instead of binary archive (likely an API error)")
	}
	return nil
}

// DiagnoseDownloadError provides detailed diagnosis of download failures
func DiagnoseDownloadError(url string, err error) string {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "connection refused"):
		return fmt.Sprintf("Connection refused to %s. The server may be down or the URL may be incorrect.", url)
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		return fmt.Sprintf("Download timeout from %s. Increase %s or try again later.", url, EnvDownloadTimeout)
	case strings.Contains(errStr, "no such host"):
		return fmt.Sprintf("DNS resolution failed for %s. Check your internet connection and the URL.", url)
	case strings.Contains(errStr, "HTTP 404"):
		return fmt.Sprintf("File not found (404) at %s. The requested version may not be available for this platform.", url)
	case strings.Contains(errStr, "HTTP 403"):
		return fmt.Sprintf("Access forbidden (403) to %s. You may need authentication or a URL replacement.", url)
	case strings.Contains(errStr, "HTTP 500") || strings.Contains(errStr, "HTTP 502") || strings.Contains(errStr, "HTTP 503"):
		return fmt.Sprintf("Server error from %s. The server is experiencing issues. Try again later.", url)
	case strings.Contains(errStr, "HTML content"):
		return fmt.Sprintf("Received HTML error page instead of binary file from %s. Check the URL and try again.", url)
	case strings.Contains(errStr, "JSON content"):
		return fmt.Sprintf("Received JSON error response instead of binary file from %s. The API may have returned an error.", url)
	case strings.Contains(errStr, "too small"):
		return fmt.Sprintf("Downloaded file from %s is too small. The download may have been incomplete.", url)
	case strings.Contains(errStr, "too large"):
		return fmt.Sprintf("Downloaded file from %s is too large. This may not be the expected file.", url)
	}

	return fmt.Sprintf("Download failed from %s: %s", url, errStr)
}
