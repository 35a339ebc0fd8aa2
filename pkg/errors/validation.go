package errors

import (
	"strings"
	"unicode"
)

// ValidateProcessName validates a process name before it is used as a store
// key or a download filename. The rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences
//   - Maximum length of 256 characters
func ValidateProcessName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "process name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "process name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "process name contains invalid control characters")
		}
	}

	// Path traversal patterns; names end up in filenames.
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "process name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateLabel validates user-entered node label text. The model layer
// accepts anything; this is the validation the interaction layer applies
// before calling into it.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}
	if len(label) > 500 {
		return New(ErrCodeInvalidInput, "label too long (max 500 characters)")
	}
	return nil
}
