package tools

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ChecksumType represents the type of checksum algorithm
type ChecksumType string

const (
	// SHA256 represents SHA-256 checksum
	SHA256 ChecksumType = "sha256"
	// SHA512 represents SHA-512 checksum
	SHA512 ChecksumType = "sha512"
)

// ChecksumInfo describes where the expected checksum of an artifact comes
// from: either an inline value or a checksum file to fetch.
type ChecksumInfo struct {
	Type     ChecksumType
	Value    string
	URL      string
	Filename string // entry to look up in a multi-line checksum file
}

// IsZero reports whether no checksum source is known
func (c ChecksumInfo) IsZero() bool {
	return c.Value == "" && c.URL == ""
}

// ErrChecksumMismatch is returned when a file does not match its checksum
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ChecksumVerifier handles checksum verification for downloaded files
type ChecksumVerifier struct {
	client   *http.Client
	replacer *URLReplacer
}

// NewChecksumVerifier creates a new checksum verifier
func NewChecksumVerifier(client *http.Client, replacer *URLReplacer) *ChecksumVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &ChecksumVerifier{client: client, replacer: replacer}
}

// ExpectedChecksum resolves the expected checksum value, fetching the
// checksum file when only a URL is known.
func (cv *ChecksumVerifier) ExpectedChecksum(ctx context.Context, checksum ChecksumInfo) (string, error) {
	if checksum.Value != "" {
		return checksum.Value, nil
	}
	if checksum.URL == "" {
		return "", fmt.Errorf("no checksum value or URL provided")
	}
	return cv.fetchChecksumFromURL(ctx, checksum.URL, checksum.Filename)
}

// VerifyFile verifies a file against an expected checksum value
func (cv *ChecksumVerifier) VerifyFile(filePath string, checksumType ChecksumType, expected string) error {
	if expected == "" {
		return fmt.Errorf("no checksum value provided")
	}

	actual, err := calculateChecksum(filePath, checksumType)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}

	if !strings.EqualFold(expected, actual) {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, expected, actual)
	}

	return nil
}

// calculateChecksum calculates the checksum of a file
func calculateChecksum(filePath string, checksumType ChecksumType) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var hasher io.Writer
	var sum func([]byte) []byte
	switch checksumType {
	case SHA256, "":
		h := sha256.New()
		hasher, sum = h, h.Sum
	case SHA512:
		h := sha512.New()
		hasher, sum = h, h.Sum
	default:
		return "", fmt.Errorf("unsupported checksum type: %s", checksumType)
	}

	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(sum(nil)), nil
}

// fetchChecksumFromURL fetches a checksum file and extracts the entry for filename
func (cv *ChecksumVerifier) fetchChecksumFromURL(ctx context.Context, url, filename string) (string, error) {
	url = cv.replacer.ApplyReplacements(url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := cv.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch checksum URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checksum URL returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read checksum response: %w", err)
	}

	if filename != "" {
		return parseChecksumFile(string(body), filename)
	}

	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty checksum file")
	}
	return fields[0], nil
}

// parseChecksumFile parses a checksum file and extracts the checksum for a specific filename
// Supports formats like: "checksum  filename" or "checksum *filename"
func parseChecksumFile(content, filename string) (string, error) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		fileInLine := strings.TrimPrefix(parts[1], "*")
		if fileInLine == filename || filepath.Base(fileInLine) == filename {
			return parts[0], nil
		}
	}

	return "", fmt.Errorf("checksum not found for file %s", filename)
}
