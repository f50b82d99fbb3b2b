// Package config loads the almanac reader's configuration from
// .almanac.yml with ALMANAC_* environment overrides on top.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ALMANAC_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: ALMANAC_BASE_URL -> base_url, etc.
	if err := k.Load(env.Provider("ALMANAC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ALMANAC_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validSchemes is the set of recognized startup scheme values.
var validSchemes = map[SchemeName]bool{
	SchemeLight: true,
	SchemeDark:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be an http(s) URL", c.BaseURL)
	}

	if c.Theme.Default != "" && !validSchemes[c.Theme.Default] {
		return fmt.Errorf("invalid theme default %q: must be light or dark", c.Theme.Default)
	}
	if c.Theme.LightStyle == "" || c.Theme.DarkStyle == "" {
		return fmt.Errorf("theme light_style and dark_style are required")
	}

	if c.Listen.Port < 1 || c.Listen.Port > 65535 {
		return fmt.Errorf("listen port %d out of range", c.Listen.Port)
	}

	if c.Panel.CollapseMargin < 0 {
		return fmt.Errorf("panel collapse_margin must be non-negative")
	}
	if c.Panel.ClearanceMargin < 0 {
		return fmt.Errorf("panel clearance_margin must be non-negative")
	}

	return nil
}

// ContentBase joins the base URL and the content path into the root all
// pages and the menu manifest resolve against.
func (c *Config) ContentBase() string {
	base := strings.TrimRight(c.BaseURL, "/")
	contentPath := strings.Trim(c.ContentPath, "/")
	if contentPath == "" {
		return base
	}
	return base + "/" + contentPath
}

// Addr returns the listen address for the reader server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Listen.Host, c.Listen.Port)
}
