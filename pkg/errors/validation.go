package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// componentNameRegex matches names usable as component names and registry keys.
var componentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]*$`)

// ValidateComponentName validates a component name from a scene document.
//
// The rules keep names safe to embed in registry keys and asset paths:
//   - No empty names
//   - No control characters
//   - No ':' (reserved as the key separator)
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateComponentName(name string) error {
	if name == "" {
		return New(ErrCodeMalformedField, "component name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeMalformedField, "component name too long (max 128 characters): %q", name[:32]+"...")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedField, "component name contains invalid control characters")
		}
	}

	if strings.Contains(name, ":") {
		return New(ErrCodeMalformedField, "component name %q cannot contain ':'", name)
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeMalformedField, "component name %q contains invalid characters: %q", name, pattern)
		}
	}

	if !componentNameRegex.MatchString(name) {
		return New(ErrCodeMalformedField, "invalid component name: %q", name)
	}

	return nil
}

// ValidateSceneName validates the top-level scene name, which is used for the
// save's SaveName and for the output file name.
func ValidateSceneName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeMalformedField, "scene name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return New(ErrCodeMalformedField, "scene name %q cannot contain path separators", name)
	}
	return nil
}

// ValidatePath validates an output directory or scene path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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
