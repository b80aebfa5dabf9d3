package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Provider supplies a value for a flag the command line left out.
type Provider interface {
	Provide(f *Flag) (string, bool)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(f *Flag) (string, bool)

func (p ProviderFunc) Provide(f *Flag) (string, bool) { return p(f) }

// DefaultProviders is the chain used when none is configured: environment,
// then declared default.
func DefaultProviders() []Provider {
	return []Provider{EnvProvider{}, DefaultProvider{}}
}

// EnvProvider reads the flag's declared environment variable.
type EnvProvider struct {
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (p EnvProvider) Provide(f *Flag) (string, bool) {
	if f.env == "" {
		return "", false
	}
	lookup := p.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return lookup(f.env)
}

// DefaultProvider returns the flag's declared default.
type DefaultProvider struct{}

func (DefaultProvider) Provide(f *Flag) (string, bool) {
	return f.DefaultValue()
}

// DotEnvProvider serves declared environment variable names from a .env file
// instead of the process environment.
type DotEnvProvider struct {
	values map[string]string
}

// NewDotEnvProvider reads path. A missing file yields an empty provider.
func NewDotEnvProvider(path string) (*DotEnvProvider, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &DotEnvProvider{values: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &DotEnvProvider{values: values}, nil
}

func (p *DotEnvProvider) Provide(f *Flag) (string, bool) {
	if f.env == "" {
		return "", false
	}
	v, ok := p.values[f.env]
	return v, ok
}

// TOMLProvider serves flag values from a TOML config file, keyed by flag
// name. With a section, keys are read from that table instead of the top
// level.
type TOMLProvider struct {
	values map[string]interface{}
}

// NewTOMLProvider decodes path. A missing file yields an empty provider.
func NewTOMLProvider(path, section string) (*TOMLProvider, error) {
	var doc map[string]interface{}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TOMLProvider{values: map[string]interface{}{}}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if section != "" {
		table, ok := doc[section].(map[string]interface{})
		if !ok {
			table = map[string]interface{}{}
		}
		doc = table
	}
	return &TOMLProvider{values: doc}, nil
}

func (p *TOMLProvider) Provide(f *Flag) (string, bool) {
	v, ok := p.values[f.name]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ","), true
	case map[string]interface{}:
		return "", false
	default:
		return fmt.Sprint(val), true
	}
}

// truthy reports whether a provided string turns a boolean flag on.
func truthy(s string) bool {
	return s != "" && s != "0" && !strings.EqualFold(s, "false")
}

// resolve fills flags absent from parsed using providers in order. Names in
// explicit were set or cleared on the command line and are left alone.
func resolve(cat catalog, providers []Provider, flags Flags, explicit map[string]bool) {
	for _, f := range cat {
		if _, ok := flags[f.name]; ok || explicit[f.name] {
			continue
		}
		for _, p := range providers {
			v, ok := p.Provide(f)
			if !ok {
				continue
			}
			if f.takesValue {
				flags.setValue(f.name, v)
			} else if truthy(v) {
				flags.setBool(f.name)
			}
			break
		}
	}
}
