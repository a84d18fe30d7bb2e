package errors

import (
	"strings"
	"unicode"
)

// ValidateTermID validates a term id received from a user or a request.
//
// Ids are opaque, but they end up in file names, SQL parameters and URLs,
// so the rules are conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No path separators
//   - Maximum length of 128 characters
func ValidateTermID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "term id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidID, "term id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "term id contains invalid characters")
		}
	}
	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidID, "term id cannot contain path separators")
	}
	return nil
}

// ValidateQuery validates a free-text term lookup.
func ValidateQuery(q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return New(ErrCodeInvalidInput, "query cannot be empty")
	}
	if len(q) > 256 {
		return New(ErrCodeInvalidInput, "query too long (max 256 characters)")
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "query contains invalid control characters")
		}
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed names.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}
	return nil
}
