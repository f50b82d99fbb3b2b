package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .almanac.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to the almanac! Let's point the reader at your content.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Content host.
	basePrompt := promptui.Prompt{
		Label:   "Base URL of the raw content host",
		Default: cfg.BaseURL,
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("must be an http(s) URL")
			}
			return nil
		},
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}

	// 2. Content path under the host.
	pathPrompt := promptui.Prompt{
		Label:   "Path of the page directory under the base URL",
		Default: cfg.ContentPath,
	}
	contentPath, err := pathPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content path: %w", err)
	}

	// 3. Start page.
	startPrompt := promptui.Prompt{
		Label:   "Page to open when a reader connects",
		Default: cfg.StartPage,
	}
	startPage, err := startPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("start page: %w", err)
	}

	// 4. Startup theme.
	themePrompt := promptui.Select{
		Label: "Default color scheme",
		Items: []string{"light", "dark"},
	}
	_, schemeStr, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}

	// 5. Listen port.
	portPrompt := promptui.Prompt{
		Label:   "Port for the reader server",
		Default: strconv.Itoa(cfg.Listen.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 6. Include patterns.
	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs)",
		Default: strings.Join(cfg.Include, ", "),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}

	cfg.BaseURL = baseURL
	cfg.ContentPath = contentPath
	cfg.StartPage = startPage
	cfg.Theme.Default = SchemeName(schemeStr)
	cfg.Listen.Port = port
	if include := splitAndTrim(includeStr); len(include) > 0 {
		cfg.Include = include
	}

	if err := cfg.Save(ConfigFile); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", ConfigFile)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
