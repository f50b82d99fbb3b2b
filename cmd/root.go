package cmd

import (
	"github.com/spf13/cobra"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "almanac",
	Short: "A reader for Markdown books published over HTTP",
	Long: `The Almanac of Codecraft turns a hosted collection of Markdown pages
into a browsable book: numbered heading outlines, highlighted code
blocks with copy buttons, scroll tracking, and light/dark themes.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.ConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
