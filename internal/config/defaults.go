package config

import "github.com/juliankahlert/the-almanac-of-codecraft/internal/layout"

// ConfigFile is the default configuration file name.
const ConfigFile = ".almanac.yml"

// DefaultIncludes admit markdown documents anywhere under the content path.
var DefaultIncludes = []string{
	"**/*.md",
	"**/*.markdown",
}

// DefaultExcludes are page patterns never served by default.
var DefaultExcludes = []string{
	"drafts/**",
	".github/**",
	"node_modules/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:       "The Almanac of Codecraft",
		BaseURL:     "https://raw.githubusercontent.com/juliankahlert/the-almanac-of-codecraft/main",
		ContentPath: "book",
		StartPage:   "README.md",
		Include:     DefaultIncludes,
		Exclude:     DefaultExcludes,
		Listen: ListenConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Theme: ThemeConfig{
			Default:    SchemeLight,
			LightStyle: "github",
			DarkStyle:  "github-dark",
		},
		Panel: PanelConfig{
			CollapseMargin:  layout.DefaultCollapseMargin,
			ClearanceMargin: layout.DefaultClearanceMargin,
		},
	}
}
