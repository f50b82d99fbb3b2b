package cmd

import (
	"fmt"
	"os"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/config"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/fetch"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `almanac init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Config: %s (content at %s)\n", cfgFile, cfg.ContentBase())
	}
	return cfg, nil
}

// newContentClient builds the fetch client the commands share.
func newContentClient(cfg *config.Config) *fetch.Client {
	return fetch.NewClient(cfg.ContentBase(), cfg.Include, cfg.Exclude)
}
