package profile

import (
	"fmt"
	"strings"
)

// InitProfile returns the starter text offered for a new profile.
func InitProfile(name string) string {
	return fmt.Sprintf("# %s\n\n<!-- Add your profile content here -->\n", name)
}

// IsBlank reports whether content adds nothing beyond headings and HTML
// comments, e.g. an untouched InitProfile template.
func IsBlank(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "<!--") {
			continue
		}
		return false
	}
	return true
}
