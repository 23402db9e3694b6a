package prompt

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// frontMatter is the optional YAML header of a profile.
type frontMatter struct {
	Description string `yaml:"description"`
}

// DefaultDescription is used when a profile carries no description.
func DefaultDescription(name string) string {
	return "System prompt: " + name
}

// Describe returns the front-matter description of content, or the default
// description when there is none or it does not parse.
func Describe(name, content string) string {
	if fm, ok := parseFrontMatter(content); ok && strings.TrimSpace(fm.Description) != "" {
		return strings.TrimSpace(fm.Description)
	}
	return DefaultDescription(name)
}

func parseFrontMatter(content string) (frontMatter, bool) {
	var fm frontMatter
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, frontMatterDelim+"\n") {
		return fm, false
	}
	rest := content[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return fm, false
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, false
	}
	return fm, true
}
