package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/rickgorman/clidispatch/pkg/cli"
)

// configPath returns the TOML config file location.
// Priority: $KV_CONFIG, then $XDG_CONFIG_HOME/kv/config.toml, then
// ~/.config/kv/config.toml.
func configPath() string {
	if p := os.Getenv("KV_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kv", "config.toml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "kv", "config.toml")
	}
	return filepath.Join(homeDir, ".config", "kv", "config.toml")
}

// loadProviders builds the provider chain: process environment, the .env
// file, the TOML config file, then declared defaults. Missing files are
// skipped.
func loadProviders(tomlPath, dotenvPath string) ([]cli.Provider, error) {
	dotenv, err := cli.NewDotEnvProvider(dotenvPath)
	if err != nil {
		return nil, err
	}
	file, err := cli.NewTOMLProvider(tomlPath, "")
	if err != nil {
		return nil, err
	}
	return []cli.Provider{cli.EnvProvider{}, dotenv, file, cli.DefaultProvider{}}, nil
}

// readEntries loads key/value pairs from path. The format follows the file
// extension; anything that is not .toml or .json is read as a .env file.
func readEntries(path string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var doc map[string]interface{}
		if _, err := toml.DecodeFile(path, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		values := map[string]string{}
		flatten("", doc, values)
		return values, nil
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		values := map[string]string{}
		flatten("", doc, values)
		return values, nil
	default:
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return values, nil
	}
}

// flatten joins nested table keys with dots.
func flatten(prefix string, doc map[string]interface{}, into map[string]string) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if table, ok := v.(map[string]interface{}); ok {
			flatten(key, table, into)
			continue
		}
		into[key] = fmt.Sprint(v)
	}
}
