package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a path from user configuration (entry point,
// abstraction folder, output file).
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
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateRelativePath validates a path that must stay relative to the
// project root, such as an abstraction folder.
//
// On top of [ValidatePath]:
//   - No absolute paths
//   - No backslashes (Windows-style paths)
func ValidateRelativePath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /): %q", path)
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes: %q", path)
	}

	return nil
}
