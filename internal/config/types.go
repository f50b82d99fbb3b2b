package config

// SchemeName selects the color scheme a session starts in, before the
// reader shell reports the platform preference.
type SchemeName string

const (
	SchemeLight SchemeName = "light"
	SchemeDark  SchemeName = "dark"
)

// Config is the top-level almanac configuration, corresponding to .almanac.yml.
type Config struct {
	Title       string       `yaml:"title" koanf:"title"`
	BaseURL     string       `yaml:"base_url" koanf:"base_url"`
	ContentPath string       `yaml:"content_path" koanf:"content_path"`
	StartPage   string       `yaml:"start_page" koanf:"start_page"`
	Include     []string     `yaml:"include" koanf:"include"`
	Exclude     []string     `yaml:"exclude" koanf:"exclude"`
	Listen      ListenConfig `yaml:"listen" koanf:"listen"`
	Theme       ThemeConfig  `yaml:"theme" koanf:"theme"`
	Panel       PanelConfig  `yaml:"panel" koanf:"panel"`
}

// ListenConfig holds the reader server's bind address.
type ListenConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
}

// ThemeConfig names the chroma styles backing the light and dark
// stylesheets.
type ThemeConfig struct {
	Default    SchemeName `yaml:"default" koanf:"default"`
	LightStyle string     `yaml:"light_style" koanf:"light_style"`
	DarkStyle  string     `yaml:"dark_style" koanf:"dark_style"`
}

// PanelConfig holds the outline panel's hysteresis margins in CSS pixels.
type PanelConfig struct {
	CollapseMargin  float64 `yaml:"collapse_margin" koanf:"collapse_margin"`
	ClearanceMargin float64 `yaml:"clearance_margin" koanf:"clearance_margin"`
}
