package tools

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ddokubi/language-revamp/pkg/util"
)

// RegexPrefix marks a replacement pattern as a regular expression
const RegexPrefix = "regex:"

// URLReplacer rewrites vendor URLs for enterprise networks and mirrors
type URLReplacer struct {
	replacements map[string]string
	logger       util.Logger
}

// NewURLReplacer creates a new URL replacer with the given replacements
func NewURLReplacer(replacements map[string]string) *URLReplacer {
	copied := make(map[string]string, len(replacements))
	for k, v := range replacements {
		copied[k] = v
	}
	return &URLReplacer{
		replacements: copied,
		logger:       util.Default(),
	}
}

// ApplyReplacements applies the first matching replacement to the URL.
// Simple patterns are tried before regex patterns, each group alphabetically.
func (r *URLReplacer) ApplyReplacements(originalURL string) string {
	if r == nil || len(r.replacements) == 0 {
		return originalURL
	}

	for _, pattern := range r.sortedPatterns() {
		newURL := r.applyReplacement(originalURL, pattern, r.replacements[pattern])
		if newURL != originalURL {
			r.logger.Debug("URL replacement applied", "from", originalURL, "to", newURL, "pattern", pattern)
			return newURL
		}
	}

	return originalURL
}

func (r *URLReplacer) sortedPatterns() []string {
	patterns := make([]string, 0, len(r.replacements))
	for pattern := range r.replacements {
		patterns = append(patterns, pattern)
	}

	sort.Slice(patterns, func(i, j int) bool {
		iIsRegex := strings.HasPrefix(patterns[i], RegexPrefix)
		jIsRegex := strings.HasPrefix(patterns[j], RegexPrefix)
		if iIsRegex != jIsRegex {
			return !iIsRegex
		}
		return patterns[i] < patterns[j]
	})
	return patterns
}

func (r *URLReplacer) applyReplacement(url, pattern, replacement string) string {
	if strings.HasPrefix(pattern, RegexPrefix) {
		regex, err := regexp.Compile(strings.TrimPrefix(pattern, RegexPrefix))
		if err != nil {
			r.logger.Warn("invalid URL replacement regex", "pattern", pattern, "error", err)
			return url
		}
		return regex.ReplaceAllString(url, replacement)
	}

	return strings.ReplaceAll(url, pattern, replacement)
}

// GetReplacementCount returns the number of configured replacements
func (r *URLReplacer) GetReplacementCount() int {
	return len(r.replacements)
}

// ValidateReplacements validates all regex replacement patterns
func (r *URLReplacer) ValidateReplacements() []error {
	var errs []error

	for pattern := range r.replacements {
		if strings.HasPrefix(pattern, RegexPrefix) {
			regexPattern := strings.TrimPrefix(pattern, RegexPrefix)
			if _, err := regexp.Compile(regexPattern); err != nil {
				errs = append(errs, fmt.Errorf("invalid regex pattern '%s': %w", regexPattern, err))
			}
		}
	}

	return errs
}
