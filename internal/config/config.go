// Package config loads and persists <root>/config.toml.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	kotoml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml"
)

// FileName is the config file name under a storage root.
const FileName = "config.toml"

var (
	// ErrMissing is returned by Load when config.toml does not exist.
	ErrMissing = errors.New("config file does not exist")
	// ErrParse is returned for malformed documents or values of the wrong type.
	ErrParse = errors.New("failed to parse config file")
)

// Config is the persisted pmx configuration.
type Config struct {
	Agents Agents
	MCP    MCP
}

// Agents gates the agent integrations.
type Agents struct {
	DisableClaude bool
	DisableCodex  bool
}

// MCP controls what the protocol server exposes.
type MCP struct {
	DisablePrompts DisableOption
	DisableTools   DisableOption
}

// Default returns a config with every integration and facet enabled.
func Default() *Config {
	return &Config{}
}

// ProtocolEnabled reports whether the MCP server could expose anything.
// It is false only when both prompts and tools are fully disabled.
func (c *Config) ProtocolEnabled() bool {
	return !(c.MCP.DisablePrompts.Mode == DisableAll && c.MCP.DisableTools.Mode == DisableAll)
}

// Path returns the config file path for root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

var tomlParser = kotoml.Parser()

// Load reads <root>/config.toml.
func Load(root string) (*Config, error) {
	path := Path(root)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrMissing, "%s", path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Newf("config path is not a file: %s", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), tomlParser); err != nil {
		return nil, errors.Wrapf(ErrParse, "%s: %v", path, err)
	}
	cfg, err := fromKoanf(k)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes a config document.
func Parse(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), tomlParser); err != nil {
		return nil, errors.Wrapf(ErrParse, "%v", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := Default()
	var err error
	if cfg.Agents.DisableClaude, err = boolAt(k, "agents.disable_claude"); err != nil {
		return nil, err
	}
	if cfg.Agents.DisableCodex, err = boolAt(k, "agents.disable_codex"); err != nil {
		return nil, err
	}
	if cfg.MCP.DisablePrompts, err = optionAt(k, "mcp.disable_prompts"); err != nil {
		return nil, err
	}
	if cfg.MCP.DisableTools, err = optionAt(k, "mcp.disable_tools"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func boolAt(k *koanf.Koanf, key string) (bool, error) {
	if !k.Exists(key) {
		return false, nil
	}
	b, ok := k.Get(key).(bool)
	if !ok {
		return false, errors.Wrapf(ErrParse, "%s: expected boolean, got %T", key, k.Get(key))
	}
	return b, nil
}

func optionAt(k *koanf.Koanf, key string) (DisableOption, error) {
	if !k.Exists(key) {
		return AllEnabled(), nil
	}
	opt, err := parseDisableOption(k.Get(key))
	if err != nil {
		return DisableOption{}, errors.Wrapf(ErrParse, "%s: %v", key, err)
	}
	return opt, nil
}

// Marshal encodes cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	tree, err := gotoml.TreeFromMap(map[string]interface{}{
		"agents": map[string]interface{}{
			"disable_claude": cfg.Agents.DisableClaude,
			"disable_codex":  cfg.Agents.DisableCodex,
		},
		"mcp": map[string]interface{}{
			"disable_prompts": cfg.MCP.DisablePrompts.tomlValue(),
			"disable_tools":   cfg.MCP.DisableTools.tomlValue(),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize config")
	}
	data, err := tree.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize config")
	}
	return data, nil
}

// Persist writes cfg to <root>/config.toml, replacing any existing file.
func Persist(root string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if _, err := Parse(data); err != nil {
		return errors.Wrap(err, "resulting config is invalid")
	}
	if err := renameio.WriteFile(Path(root), data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", Path(root))
	}
	return nil
}
