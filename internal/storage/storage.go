// Package storage locates, validates, and initializes a pmx storage root:
// a directory holding config.toml and the repo/ profile tree.
package storage

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/ppiankov/pmx/internal/config"
	"github.com/ppiankov/pmx/internal/profile"
)

// EnvRoot overrides the default storage root.
const EnvRoot = "PMX_CONFIG_FILE"

// Storage is an opened storage root. Config is loaded once and not reloaded.
type Storage struct {
	Path     string
	Config   *config.Config
	Profiles *profile.Repository
}

// Open validates root and loads its config and repository.
func Open(root string) (*Storage, error) {
	if err := validate(root); err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	repo, err := profile.NewRepository(root)
	if err != nil {
		return nil, err
	}
	return &Storage{Path: root, Config: cfg, Profiles: repo}, nil
}

func validate(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("storage path does not exist: %s", root)
		}
		return errors.Wrapf(err, "stat %s", root)
	}
	if !info.IsDir() {
		return errors.Newf("storage path is not a directory: %s", root)
	}
	return nil
}

// Initialize creates a new root with an empty repository and default config.
// It refuses to touch an existing path.
func Initialize(root string) (*Storage, error) {
	if _, err := os.Stat(root); err == nil {
		return nil, errors.Newf("storage path already exists: %s", root)
	}
	if err := os.MkdirAll(filepath.Join(root, profile.RepoDir), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage directory %s", root)
	}
	if err := config.Persist(root, config.Default()); err != nil {
		return nil, err
	}
	return Open(root)
}

// DefaultRoot returns $XDG_CONFIG_HOME/pmx, or ~/.config/pmx.
func DefaultRoot() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pmx"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	return filepath.Join(home, ".config", "pmx"), nil
}

// Discover opens the storage root to use: explicit if set, else $PMX_CONFIG_FILE,
// else DefaultRoot. Explicit and environment roots must already be valid.
// The default root is initialized on first use.
func Discover(explicit string) (*Storage, error) {
	if explicit != "" {
		return Open(explicit)
	}
	if env := os.Getenv(EnvRoot); env != "" {
		return Open(env)
	}

	root, err := DefaultRoot()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Info().Str("path", root).Msg("initializing pmx storage")
		return Initialize(root)
	}
	return Open(root)
}
