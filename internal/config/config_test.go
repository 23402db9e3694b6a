package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadFull(t *testing.T) {
	root := writeConfig(t, `
[agents]
disable_claude = true
disable_codex = false

[mcp]
disable_prompts = ["secret", "draft/wip"]
disable_tools = true
`)
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Config{
		Agents: Agents{DisableClaude: true},
		MCP: MCP{
			DisablePrompts: DisabledNames("secret", "draft/wip"),
			DisableTools:   AllDisabled(),
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithoutMCPGroup(t *testing.T) {
	root := writeConfig(t, `
[agents]
disable_claude = false
disable_codex = true
`)
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MCP.DisablePrompts.Mode != EnableAll || cfg.MCP.DisableTools.Mode != EnableAll {
		t.Errorf("missing mcp group should default to enabled, got %+v", cfg.MCP)
	}
	if !cfg.Agents.DisableCodex {
		t.Error("expected disable_codex = true")
	}
}

func TestLoadPartialMCPGroup(t *testing.T) {
	root := writeConfig(t, `
[agents]
disable_claude = false
disable_codex = false

[mcp]
disable_tools = ["create_profile"]
`)
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MCP.DisablePrompts.Mode != EnableAll {
		t.Errorf("absent disable_prompts = %v, want false", cfg.MCP.DisablePrompts)
	}
	if diff := cmp.Diff(DisabledNames("create_profile"), cfg.MCP.DisableTools); diff != "" {
		t.Errorf("disable_tools mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("load = %v, want ErrMissing", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := map[string]string{
		"syntax":          "[agents\ndisable_claude = ",
		"bool type":       "[agents]\ndisable_claude = \"yes\"\n",
		"option type":     "[mcp]\ndisable_prompts = \"all\"\n",
		"option elements": "[mcp]\ndisable_tools = [1, 2]\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			if !errors.Is(err, ErrParse) {
				t.Fatalf("load = %v, want ErrParse", err)
			}
		})
	}
}

func TestPersistRoundTrip(t *testing.T) {
	configs := []*Config{
		Default(),
		{
			Agents: Agents{DisableClaude: true, DisableCodex: true},
			MCP: MCP{
				DisablePrompts: DisabledNames("a", "b/c"),
				DisableTools:   AllDisabled(),
			},
		},
		{MCP: MCP{DisablePrompts: AllDisabled(), DisableTools: DisabledNames("show_profile")}},
	}

	for _, cfg := range configs {
		root := t.TempDir()
		if err := Persist(root, cfg); err != nil {
			t.Fatalf("persist: %v", err)
		}
		got, err := Load(root)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if diff := cmp.Diff(cfg, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestPersistEmptyNameList(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{MCP: MCP{DisablePrompts: DisabledNames()}}
	if err := Persist(root, cfg); err != nil {
		t.Fatalf("persist: %v", err)
	}
	got, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.MCP.DisablePrompts.Mode != DisableNamed || len(got.MCP.DisablePrompts.Names) != 0 {
		t.Errorf("disable_prompts = %+v, want empty list", got.MCP.DisablePrompts)
	}
	if !got.MCP.DisablePrompts.Allows("anything") {
		t.Error("empty list should allow every name")
	}
}

func TestDisableOptionAllows(t *testing.T) {
	tests := []struct {
		opt  DisableOption
		name string
		want bool
	}{
		{AllEnabled(), "a", true},
		{AllEnabled(), "b", true},
		{AllDisabled(), "a", false},
		{AllDisabled(), "b", false},
		{DisabledNames("a"), "a", false},
		{DisabledNames("a"), "b", true},
		{DisabledNames("a"), "a/b", true},
		{DisableOption{}, "zero", true},
	}
	for _, tt := range tests {
		if got := tt.opt.Allows(tt.name); got != tt.want {
			t.Errorf("%v.Allows(%q) = %v, want %v", tt.opt, tt.name, got, tt.want)
		}
	}
}

func TestProtocolEnabled(t *testing.T) {
	options := []DisableOption{AllEnabled(), AllDisabled(), DisabledNames("x")}
	for _, prompts := range options {
		for _, tools := range options {
			cfg := &Config{MCP: MCP{DisablePrompts: prompts, DisableTools: tools}}
			want := !(prompts.Mode == DisableAll && tools.Mode == DisableAll)
			if got := cfg.ProtocolEnabled(); got != want {
				t.Errorf("ProtocolEnabled(prompts=%v, tools=%v) = %v, want %v", prompts, tools, got, want)
			}
		}
	}
	if Default().ProtocolEnabled() != true {
		t.Error("default config should enable the protocol")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("[mcp]\ndisable_prompts = false\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.MCP.DisablePrompts.Mode != EnableAll {
		t.Errorf("disable_prompts = %v", cfg.MCP.DisablePrompts)
	}
	if _, err := Parse([]byte("= nope")); !errors.Is(err, ErrParse) {
		t.Errorf("parse garbage = %v, want ErrParse", err)
	}
}
