package util

import (
	"fmt"
	"regexp"
)

// validIDChars matches the characters the backend accepts in tenant and
// panel identifiers: alphanumerics, hyphens, and underscores.
var validIDChars = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

// ValidateIdentifier checks a tenant or panel id before it is placed in
// a request path or query string:
//   - non-empty
//   - only alphanumeric characters, hyphens, and underscores
//   - first character must be alphanumeric
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s id is required", kind)
	}

	if !validIDChars.MatchString(id) {
		return fmt.Errorf("%s id %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, and underscores are allowed)", kind, id)
	}

	if !isAlphanumeric(id[0]) {
		return fmt.Errorf("%s id must start with an alphanumeric character, got %q", kind, string(id[0]))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
