package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// documentIDRegex matches ids accepted by the stores: uuids, slugs and
// similar filename-safe tokens.
var documentIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentID validates a store id for safety.
// Ids become file names and database keys, so the rules are conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - No path traversal sequences (..)
//   - Only letters, digits, '.', '_' and '-'
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "document id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "document id too long (max 128 characters)")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "document id cannot contain path traversal sequences (..)")
	}
	if !documentIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid document id: %q", id)
	}
	return nil
}

// ValidateDocumentName validates a display name.
// Names are free text but may not contain control characters and are
// limited to 256 characters.
func ValidateDocumentName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "document name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document name contains invalid control characters")
		}
	}
	return nil
}
