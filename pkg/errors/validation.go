package errors

import (
	"strings"
	"unicode"
)

// maxPublisherNameLength bounds publisher names accepted from offering files.
const maxPublisherNameLength = 128

// ValidatePublisherName validates a publisher name taken from user input.
// Empty names are allowed (the publisher is then anonymous); anything else
// must be printable and reasonably short so it can be logged and rendered.
func ValidatePublisherName(name string) error {
	if len(name) > maxPublisherNameLength {
		return New(ErrCodeInvalidPublisher, "publisher name too long (max %d characters)", maxPublisherNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPublisher, "publisher name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates an input or output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateRedisURL validates a Redis connection URL.
// Only the redis:// and rediss:// schemes are accepted.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}
	return nil
}
