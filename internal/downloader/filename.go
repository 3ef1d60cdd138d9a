// SPDX-License-Identifier: MIT

package downloader

import (
	"net/url"
	"regexp"
	"strings"
)

const maxFilenameLength = 200

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename strips characters that are invalid in filenames on common
// filesystems, trims stray dots and spaces, and caps the length. An empty
// result falls back to "video".
func SanitizeFilename(name string) string {
	s := invalidFilenameChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, " .")
	if len(s) > maxFilenameLength {
		s = s[:maxFilenameLength]
	}
	if s == "" {
		return "video"
	}
	return s
}

// ValidateURL checks that raw is an absolute http(s) URL with a host.
// Anything else is rejected before any external call is made.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrInvalidRequest
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidRequest
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidRequest
	}
	return nil
}
