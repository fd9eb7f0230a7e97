package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateKeyboardPath validates a keyboard identifier from the QMK tree,
// such as "handwired/dactyl_manuform/4x5", before it is templated into a URL.
//
// The rules reject anything that could escape the keyboards/ directory:
//   - No empty identifiers
//   - Maximum length of 256 characters
//   - No control characters or null bytes
//   - No absolute paths, no "..", no "//", no backslashes
func ValidateKeyboardPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "keyboard path cannot be empty")
	}

	if len(path) > 256 {
		return New(ErrCodeInvalidPath, "keyboard path too long (max 256 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "keyboard path contains invalid control characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "keyboard path must be relative (cannot start with /)")
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(path, pattern) {
			return New(ErrCodeInvalidPath, "keyboard path contains invalid characters: %q", pattern)
		}
	}

	if !keyboardPathRegex.MatchString(path) {
		return New(ErrCodeInvalidPath, "invalid keyboard path: %q", path)
	}

	return nil
}

// keyboardPathRegex matches the directory names used under qmk_firmware/keyboards.
var keyboardPathRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*(/[A-Za-z0-9._+-]+)*$`)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
