// Package prompt decides which profiles are exposed as protocol prompts and
// renders them with argument bindings.
package prompt

import (
	"github.com/cockroachdb/errors"

	"github.com/ppiankov/pmx/internal/config"
	"github.com/ppiankov/pmx/internal/template"
)

// ErrDisabled is returned for profiles hidden by mcp.disable_prompts.
var ErrDisabled = errors.New("prompt disabled")

// Repository is the read side of a profile repository.
type Repository interface {
	List() ([]string, error)
	Read(name string) (string, error)
}

// Argument is a placeholder a client may bind.
type Argument struct {
	Name     string
	Required bool
}

// Entry describes one visible prompt.
type Entry struct {
	Name        string
	Description string
	// Arguments is nil when the profile content could not be read.
	Arguments []Argument
}

// Server answers prompt list/get requests. It holds no state of its own
// beyond the repository and the config loaded at startup.
type Server struct {
	repo    Repository
	visible config.DisableOption
}

// New creates a Server backed by repo and the prompt policy in cfg.
func New(repo Repository, cfg *config.Config) *Server {
	return &Server{repo: repo, visible: cfg.MCP.DisablePrompts}
}

// Enabled reports whether name may be listed or fetched.
func (s *Server) Enabled(name string) bool {
	return s.visible.Allows(name)
}

// List returns the visible prompts in repository order.
//
// Listing is best-effort per entry: a profile whose content cannot be read
// is still listed, with no arguments and the default description. Only a
// failure to enumerate the repository itself is returned.
func (s *Server) List() ([]Entry, error) {
	names, err := s.repo.List()
	if err != nil {
		return nil, errors.Wrap(err, "list prompts")
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if !s.Enabled(name) {
			continue
		}
		entry := Entry{Name: name, Description: DefaultDescription(name)}
		if content, err := s.repo.Read(name); err == nil {
			entry.Description = Describe(name, content)
			entry.Arguments = Arguments(content)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Get returns the content of name with bindings substituted. Hidden prompts
// fail with ErrDisabled before the repository is consulted.
func (s *Server) Get(name string, bindings map[string]any) (string, error) {
	if !s.Enabled(name) {
		return "", errors.Wrapf(ErrDisabled, "%q", name)
	}
	content, err := s.repo.Read(name)
	if err != nil {
		return "", err
	}
	return template.Substitute(content, bindings), nil
}

// Arguments lists the placeholders of content as required arguments.
func Arguments(content string) []Argument {
	names := template.Extract(content)
	args := make([]Argument, 0, len(names))
	for _, n := range names {
		args = append(args, Argument{Name: n, Required: true})
	}
	return args
}
