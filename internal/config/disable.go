package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// DisableMode selects how a DisableOption treats names.
type DisableMode int

const (
	// EnableAll exposes every name. Written as `false`.
	EnableAll DisableMode = iota
	// DisableAll hides every name. Written as `true`.
	DisableAll
	// DisableNamed hides only the listed names. Written as a string array.
	DisableNamed
)

// DisableOption is the tri-state value of mcp.disable_prompts and
// mcp.disable_tools. The zero value is EnableAll.
type DisableOption struct {
	Mode  DisableMode
	Names []string
}

// AllEnabled returns an option that hides nothing.
func AllEnabled() DisableOption { return DisableOption{Mode: EnableAll} }

// AllDisabled returns an option that hides everything.
func AllDisabled() DisableOption { return DisableOption{Mode: DisableAll} }

// DisabledNames returns an option that hides exactly names.
func DisabledNames(names ...string) DisableOption {
	return DisableOption{Mode: DisableNamed, Names: names}
}

// Allows reports whether name is visible under the option.
func (o DisableOption) Allows(name string) bool {
	switch o.Mode {
	case DisableAll:
		return false
	case DisableNamed:
		return !slices.Contains(o.Names, name)
	default:
		return true
	}
}

func (o DisableOption) String() string {
	switch o.Mode {
	case DisableAll:
		return "true"
	case DisableNamed:
		quoted := make([]string, len(o.Names))
		for i, n := range o.Names {
			quoted[i] = fmt.Sprintf("%q", n)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return "false"
	}
}

func (o DisableOption) tomlValue() interface{} {
	switch o.Mode {
	case DisableAll:
		return true
	case DisableNamed:
		names := o.Names
		if names == nil {
			names = []string{}
		}
		return names
	default:
		return false
	}
}

// parseDisableOption maps a decoded TOML value onto the tagged variant.
func parseDisableOption(v interface{}) (DisableOption, error) {
	switch val := v.(type) {
	case bool:
		if val {
			return AllDisabled(), nil
		}
		return AllEnabled(), nil
	case []interface{}:
		names := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return DisableOption{}, errors.Newf("element %d: expected string, got %T", i, item)
			}
			names = append(names, s)
		}
		return DisabledNames(names...), nil
	case []string:
		return DisabledNames(slices.Clone(val)...), nil
	default:
		return DisableOption{}, errors.Newf("expected boolean or array of names, got %T", v)
	}
}
