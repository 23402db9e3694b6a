package profile

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:embed starters/*.md
var starterFS embed.FS

// Starters returns the names of the example profiles shipped with pmx.
func Starters() []string {
	entries, err := starterFS.ReadDir("starters")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	sort.Strings(names)
	return names
}

// Starter returns the content of a shipped example profile.
func Starter(name string) (string, error) {
	data, err := starterFS.ReadFile(path.Join("starters", name+Ext))
	if err != nil {
		return "", errors.Wrapf(ErrNotFound, "starter %q", name)
	}
	return string(data), nil
}

// SeedStarters creates every shipped example profile that is not already
// present and returns the names it wrote.
func (r *Repository) SeedStarters() ([]string, error) {
	var created []string
	for _, name := range Starters() {
		if r.Exists(name) {
			continue
		}
		content, err := Starter(name)
		if err != nil {
			return created, err
		}
		if err := r.Create(name, content); err != nil {
			return created, err
		}
		created = append(created, name)
	}
	return created, nil
}
