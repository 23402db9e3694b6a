package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/pmx/internal/config"
	"github.com/ppiankov/pmx/internal/profile"
)

// fakeRepo serves profiles from memory. Names in unreadable fail on Read.
type fakeRepo struct {
	profiles   map[string]string
	unreadable map[string]bool
	listErr    error
	reads      []string
}

func (f *fakeRepo) List() ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.profiles))
	for n := range f.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeRepo) Read(name string) (string, error) {
	f.reads = append(f.reads, name)
	if f.unreadable[name] {
		return "", fmt.Errorf("read %s: permission denied", name)
	}
	content, ok := f.profiles[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, profile.ErrNotFound)
	}
	return content, nil
}

func serverWith(repo Repository, prompts config.DisableOption) *Server {
	cfg := config.Default()
	cfg.MCP.DisablePrompts = prompts
	return New(repo, cfg)
}

func TestEnabledTruthTable(t *testing.T) {
	repo := &fakeRepo{}
	tests := []struct {
		opt  config.DisableOption
		name string
		want bool
	}{
		{config.AllDisabled(), "a", false},
		{config.AllDisabled(), "b", false},
		{config.DisabledNames("a"), "a", false},
		{config.DisabledNames("a"), "b", true},
		{config.AllEnabled(), "a", true},
		{config.AllEnabled(), "b", true},
	}
	for _, tt := range tests {
		if got := serverWith(repo, tt.opt).Enabled(tt.name); got != tt.want {
			t.Errorf("Enabled(%q) under %v = %v, want %v", tt.name, tt.opt, got, tt.want)
		}
	}
}

func TestListFiltersAndAttachesArguments(t *testing.T) {
	repo := &fakeRepo{profiles: map[string]string{
		"net/connect": "Connect to <{{HOST}}> on <{{PORT}}> via <{{HOST}}>",
		"hidden":      "secret <{{X}}>",
		"plain":       "no placeholders",
	}}
	s := serverWith(repo, config.DisabledNames("hidden"))

	entries, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []Entry{
		{
			Name:        "net/connect",
			Description: "System prompt: net/connect",
			Arguments:   []Argument{{Name: "HOST", Required: true}, {Name: "PORT", Required: true}},
		},
		{Name: "plain", Description: "System prompt: plain", Arguments: []Argument{}},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestListAllDisabled(t *testing.T) {
	repo := &fakeRepo{profiles: map[string]string{"a": "x", "b": "y"}}
	entries, err := serverWith(repo, config.AllDisabled()).List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %+v", entries)
	}
	if len(repo.reads) != 0 {
		t.Errorf("hidden prompts were read: %v", repo.reads)
	}
}

func TestListUnreadableIsBestEffort(t *testing.T) {
	repo := &fakeRepo{
		profiles:   map[string]string{"ok": "<{{A}}>", "broken": "<{{B}}>"},
		unreadable: map[string]bool{"broken": true},
	}
	entries, err := serverWith(repo, config.AllEnabled()).List()
	if err != nil {
		t.Fatalf("list should not fail on unreadable content: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	broken := entries[0]
	if broken.Name != "broken" {
		t.Fatalf("expected broken first, got %q", broken.Name)
	}
	if broken.Arguments != nil {
		t.Errorf("unreadable entry should have no arguments, got %+v", broken.Arguments)
	}
	if len(entries[1].Arguments) != 1 {
		t.Errorf("readable entry lost its arguments: %+v", entries[1])
	}
}

func TestListRepositoryFailure(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("walk failed")}
	if _, err := serverWith(repo, config.AllEnabled()).List(); err == nil {
		t.Fatal("expected list error to propagate")
	}
}

func TestGetSubstitutes(t *testing.T) {
	repo := &fakeRepo{profiles: map[string]string{"greet": "Hello <{{NAME}}>, <{{MISSING}}>"}}
	s := serverWith(repo, config.AllEnabled())

	got, err := s.Get("greet", map[string]any{"NAME": "Ada"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Hello Ada, <{{MISSING}}>" {
		t.Errorf("get = %q", got)
	}

	raw, err := s.Get("greet", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if raw != repo.profiles["greet"] {
		t.Errorf("get without bindings = %q, want raw content", raw)
	}
}

func TestGetDisabledBeforeRead(t *testing.T) {
	repo := &fakeRepo{profiles: map[string]string{"a": "x"}}
	s := serverWith(repo, config.DisabledNames("a", "ghost"))

	for _, name := range []string{"a", "ghost"} {
		_, err := s.Get(name, nil)
		if !errors.Is(err, ErrDisabled) {
			t.Errorf("get %q = %v, want ErrDisabled", name, err)
		}
		if errors.Is(err, profile.ErrNotFound) {
			t.Errorf("get %q must not report not found", name)
		}
	}
	if len(repo.reads) != 0 {
		t.Errorf("disabled get read the repository: %v", repo.reads)
	}
}

func TestGetNotFound(t *testing.T) {
	s := serverWith(&fakeRepo{profiles: map[string]string{}}, config.AllEnabled())
	_, err := s.Get("nope", nil)
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("get = %v, want ErrNotFound", err)
	}
	if errors.Is(err, ErrDisabled) {
		t.Fatal("missing prompt must not report disabled")
	}
}

func TestServerOverRepository(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, profile.RepoDir), 0o755); err != nil {
		t.Fatal(err)
	}
	repo, err := profile.NewRepository(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Create("a", "---\ndescription: First\n---\nuse <{{X}}>"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create("b/c", "body"); err != nil {
		t.Fatal(err)
	}

	entries, err := New(repo, config.Default()).List()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"a", "b/c"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if entries[0].Description != "First" {
		t.Errorf("description = %q, want front matter value", entries[0].Description)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"plain body", "System prompt: p"},
		{"---\ndescription: Reviewer\n---\nbody", "Reviewer"},
		{"---\r\ndescription: CRLF\r\n---\r\nbody", "CRLF"},
		{"---\ntitle: only\n---\nbody", "System prompt: p"},
		{"---\ndescription: [unclosed\n---\n", "System prompt: p"},
		{"---\ndescription: no end", "System prompt: p"},
		{"body\n---\ndescription: late\n---\n", "System prompt: p"},
	}
	for _, tt := range tests {
		if got := Describe("p", tt.content); got != tt.want {
			t.Errorf("Describe(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}
