// Package agent installs profiles as the system prompt file of coding agents.
package agent

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"

	"github.com/ppiankov/pmx/internal/config"
	"github.com/ppiankov/pmx/internal/profile"
)

// ErrDisabled is returned when the integration is turned off in config.toml.
var ErrDisabled = errors.New("agent integration disabled")

// Target is an agent whose prompt file pmx manages.
type Target struct {
	// Name is shown to users, e.g. "Claude".
	Name string
	// Dir is the agent directory relative to the home directory.
	Dir string
	// File is the prompt file name inside Dir.
	File string
	// Disabled reads the gating flag from config.
	Disabled func(config.Agents) bool
}

var (
	Claude = Target{
		Name:     "Claude",
		Dir:      ".claude",
		File:     "CLAUDE.md",
		Disabled: func(a config.Agents) bool { return a.DisableClaude },
	}
	Codex = Target{
		Name:     "Codex",
		Dir:      ".codex",
		File:     "AGENTS.md",
		Disabled: func(a config.Agents) bool { return a.DisableCodex },
	}
)

// Installer writes profiles to agent prompt files below Home.
type Installer struct {
	Home     string
	Config   *config.Config
	Profiles *profile.Repository
}

// NewInstaller uses the current user's home directory.
func NewInstaller(cfg *config.Config, repo *profile.Repository) (*Installer, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}
	return &Installer{Home: home, Config: cfg, Profiles: repo}, nil
}

// Path returns the prompt file of t.
func (in *Installer) Path(t Target) string {
	return filepath.Join(in.Home, t.Dir, t.File)
}

func (in *Installer) check(t Target) error {
	if t.Disabled(in.Config.Agents) {
		return errors.Wrapf(ErrDisabled, "%s profiles are disabled in the configuration", t.Name)
	}
	return nil
}

// Set replaces the prompt file of t with the profile content.
func (in *Installer) Set(t Target, name string) (string, error) {
	if err := in.check(t); err != nil {
		return "", err
	}
	content, err := in.Profiles.Read(name)
	if err != nil {
		return "", err
	}
	dst := in.Path(t)
	if err := in.write(dst, content); err != nil {
		return "", errors.Wrapf(err, "failed to apply profile %q", name)
	}
	return dst, nil
}

// Reset removes the prompt file of t. It reports false when there was
// nothing to remove.
func (in *Installer) Reset(t Target) (string, bool, error) {
	if err := in.check(t); err != nil {
		return "", false, err
	}
	dst := in.Path(t)
	if err := os.Remove(dst); err != nil {
		if os.IsNotExist(err) {
			return dst, false, nil
		}
		return dst, false, errors.Wrapf(err, "failed to remove %s", dst)
	}
	return dst, true, nil
}

// Append adds the profile content to the end of the prompt file of t,
// separated by a blank line, creating the file if needed. It reports
// whether an existing file was extended.
//
// The read and the write are separate steps; a concurrent writer to the
// same file can be overwritten.
func (in *Installer) Append(t Target, name string) (string, bool, error) {
	if err := in.check(t); err != nil {
		return "", false, err
	}
	content, err := in.Profiles.Read(name)
	if err != nil {
		return "", false, err
	}

	dst := in.Path(t)
	existing, err := os.ReadFile(dst)
	extended := err == nil
	switch {
	case extended:
		content = string(existing) + "\n\n" + content
	case !os.IsNotExist(err):
		return dst, false, errors.Wrapf(err, "failed to read existing %s profile", t.Name)
	}

	if err := in.write(dst, content); err != nil {
		return dst, false, errors.Wrapf(err, "failed to append profile %q", name)
	}
	return dst, extended, nil
}

func (in *Installer) write(dst, content string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", filepath.Dir(dst))
	}
	return renameio.WriteFile(dst, []byte(content), 0o644)
}
