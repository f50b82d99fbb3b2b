package cmd

import (
	"github.com/spf13/cobra"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize almanac configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to point the reader at your content and writes a .almanac.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
