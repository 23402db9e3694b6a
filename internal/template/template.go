// Package template finds and fills <{{NAME}}> placeholders in profile content.
package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe matches <{{IDENTIFIER}}>. Group 1 is the identifier.
var placeholderRe = regexp.MustCompile(`<\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}>`)

// Extract returns the distinct placeholder identifiers in content, in the
// order they first appear.
func Extract(content string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// Substitute replaces every placeholder whose identifier is bound. Unbound
// placeholders are left as they are. Replacement text is not scanned again.
func Substitute(content string, bindings map[string]any) string {
	if len(bindings) == 0 {
		return content
	}
	return placeholderRe.ReplaceAllStringFunc(content, func(match string) string {
		name := match[3 : len(match)-3]
		v, ok := bindings[name]
		if !ok {
			return match
		}
		return Text(v)
	})
}

// Text renders a bound value. Strings are used verbatim; anything else uses
// its JSON form with surrounding quotes removed.
func Text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.Trim(strings.TrimSuffix(buf.String(), "\n"), `"`)
}

// StringBindings converts protocol arguments to bindings.
func StringBindings(args map[string]string) map[string]any {
	if len(args) == 0 {
		return nil
	}
	bindings := make(map[string]any, len(args))
	for k, v := range args {
		bindings[k] = v
	}
	return bindings
}
