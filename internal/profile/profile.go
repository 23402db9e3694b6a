// Package profile stores prompt profiles as markdown documents under
// <root>/repo and maps validated profile names to those files.
package profile

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Ext is the file extension of profile documents.
const Ext = ".md"

// RepoDir is the repository directory name under a storage root.
const RepoDir = "repo"

var (
	// ErrInvalidName is returned for names rejected by ValidateName.
	ErrInvalidName = errors.New("invalid profile name")
	// ErrNotFound is returned when no document exists for a name.
	ErrNotFound = errors.New("profile not found")
	// ErrAlreadyExists is returned by Create when the document is already present.
	ErrAlreadyExists = errors.New("profile already exists")
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Repository is the set of profile documents under <root>/repo.
//
// Writes are plain read/write sequences with no locking; concurrent writers
// to the same root are last-writer-wins.
type Repository struct {
	root string
	dir  string
}

// NewRepository opens the repository below root. The repo directory must
// already exist.
func NewRepository(root string) (*Repository, error) {
	dir := filepath.Join(root, RepoDir)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf("repository path does not exist: %s", dir)
		}
		return nil, errors.Wrapf(err, "stat %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("repository path is not a directory: %s", dir)
	}
	return &Repository{root: root, dir: dir}, nil
}

// Root returns the storage root the repository lives in.
func (r *Repository) Root() string { return r.root }

// Dir returns the repository directory.
func (r *Repository) Dir() string { return r.dir }

// path maps an already-validated name to its document path.
func (r *Repository) path(name string) string {
	return filepath.Join(r.dir, filepath.FromSlash(name)+Ext)
}

// Exists reports whether a document exists for name. Invalid names never exist.
func (r *Repository) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	info, err := os.Stat(r.path(name))
	return err == nil && !info.IsDir()
}

// Resolve returns the document path for an existing profile.
func (r *Repository) Resolve(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	path := r.path(name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(ErrNotFound, "%q at %s", name, path)
		}
		return "", errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return "", errors.Wrapf(ErrNotFound, "%q at %s", name, path)
	}
	return path, nil
}

// Read returns the content of a profile.
func (r *Repository) Read(name string) (string, error) {
	path, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read profile %s", path)
	}
	return string(data), nil
}

// Create writes a new profile. It never overwrites an existing document.
func (r *Repository) Create(name, content string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := r.path(name)
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(ErrAlreadyExists, "%q", name)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.Wrapf(err, "create directory %s", filepath.Dir(path))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(ErrAlreadyExists, "%q", name)
		}
		return errors.Wrapf(err, "create profile %s", path)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return errors.Wrapf(err, "write profile %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "write profile %s", path)
	}
	return nil
}

// Update replaces the content of an existing profile.
func (r *Repository) Update(name, content string) error {
	path, err := r.Resolve(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return errors.Wrapf(err, "write profile %s", path)
	}
	return nil
}

// Delete removes an existing profile.
func (r *Repository) Delete(name string) error {
	path, err := r.Resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return errors.Wrapf(err, "delete profile %s", path)
	}
	return nil
}

// List returns the names of all profiles, sorted. Files without the .md
// extension are ignored.
func (r *Repository) List() ([]string, error) {
	names := []string{}
	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != Ext {
			return nil
		}
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), Ext))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list profiles in %s", r.dir)
	}
	sort.Strings(names)
	return names, nil
}
