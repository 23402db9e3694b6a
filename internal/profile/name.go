package profile

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// MaxNameLength is the longest accepted profile name, in code points.
const MaxNameLength = 255

// reservedChars cannot appear anywhere in a profile name.
const reservedChars = `<>:"|?*`

// ValidateName rejects names that could escape the repository directory or
// produce unportable file names. Names are '/'-separated logical paths
// without the .md extension, e.g. "design/plan".
func ValidateName(name string) error {
	if name == "" {
		return invalidName(name, "name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalidName(name, "name too long (max 255 characters)")
	}
	if strings.Contains(name, "..") || strings.Contains(name, `\`) {
		return invalidName(name, "name cannot contain '..' or backslashes")
	}

	for _, component := range strings.Split(name, "/") {
		switch component {
		case "":
			return invalidName(name, "name cannot have empty path components")
		case ".", "..":
			return invalidName(name, "name cannot contain '.' or '..' path components")
		}
	}

	for _, r := range name {
		if strings.ContainsRune(reservedChars, r) || unicode.IsControl(r) {
			return invalidName(name, "name contains invalid characters")
		}
	}
	return nil
}

func invalidName(name, reason string) error {
	return errors.Wrapf(ErrInvalidName, "%s: %q", reason, name)
}
