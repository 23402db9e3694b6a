package agent

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/pmx/internal/config"
	"github.com/ppiankov/pmx/internal/profile"
)

func newTestInstaller(t *testing.T, cfg *config.Config) *Installer {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, profile.RepoDir), 0o755); err != nil {
		t.Fatal(err)
	}
	repo, err := profile.NewRepository(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Create("base", "base rules"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create("extra/style", "style rules"); err != nil {
		t.Fatal(err)
	}
	return &Installer{Home: t.TempDir(), Config: cfg, Profiles: repo}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestSetResetClaude(t *testing.T) {
	in := newTestInstaller(t, config.Default())

	dst, err := in.Set(Claude, "base")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if want := filepath.Join(in.Home, ".claude", "CLAUDE.md"); dst != want {
		t.Errorf("dst = %q, want %q", dst, want)
	}
	if got := readFile(t, dst); got != "base rules" {
		t.Errorf("content = %q", got)
	}

	// Set replaces rather than appends.
	if _, err := in.Set(Claude, "extra/style"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, dst); got != "style rules" {
		t.Errorf("content after second set = %q", got)
	}

	_, removed, err := in.Reset(Claude)
	if err != nil || !removed {
		t.Fatalf("reset = %v, %v", removed, err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("expected prompt file removed")
	}

	_, removed, err = in.Reset(Claude)
	if err != nil || removed {
		t.Fatalf("second reset = %v, %v; want false, nil", removed, err)
	}
}

func TestAppendCodex(t *testing.T) {
	in := newTestInstaller(t, config.Default())

	dst, extended, err := in.Append(Codex, "base")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if extended {
		t.Error("first append should create the file")
	}
	if want := filepath.Join(in.Home, ".codex", "AGENTS.md"); dst != want {
		t.Errorf("dst = %q, want %q", dst, want)
	}

	_, extended, err = in.Append(Codex, "extra/style")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !extended {
		t.Error("second append should extend the file")
	}
	if got := readFile(t, dst); got != "base rules\n\nstyle rules" {
		t.Errorf("content = %q", got)
	}
}

func TestDisabledIntegration(t *testing.T) {
	cfg := config.Default()
	cfg.Agents.DisableCodex = true
	in := newTestInstaller(t, cfg)

	if _, err := in.Set(Codex, "base"); !errors.Is(err, ErrDisabled) {
		t.Errorf("set = %v, want ErrDisabled", err)
	}
	if _, _, err := in.Append(Codex, "base"); !errors.Is(err, ErrDisabled) {
		t.Errorf("append = %v, want ErrDisabled", err)
	}
	if _, _, err := in.Reset(Codex); !errors.Is(err, ErrDisabled) {
		t.Errorf("reset = %v, want ErrDisabled", err)
	}
	if _, err := os.Stat(filepath.Join(in.Home, ".codex")); !os.IsNotExist(err) {
		t.Error("disabled integration touched the filesystem")
	}

	// Claude is unaffected.
	if _, err := in.Set(Claude, "base"); err != nil {
		t.Errorf("claude set: %v", err)
	}
}

func TestSetMissingProfile(t *testing.T) {
	in := newTestInstaller(t, config.Default())
	if _, err := in.Set(Claude, "missing"); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("set = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(in.Path(Claude)); !os.IsNotExist(err) {
		t.Error("missing profile created a prompt file")
	}
}
