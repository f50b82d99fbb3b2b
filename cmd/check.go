package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/progress"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/session"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every menu page fetches and renders",
	Long: `Walks the menu, fetches every page it names, and runs each one through
the render pipeline. Fails if any page cannot be read or rendered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := newContentClient(cfg)
		ctx := context.Background()

		menu, err := client.Menu(ctx)
		if err != nil {
			return fmt.Errorf("fetching menu: %w", err)
		}

		var pages []string
		seen := map[string]bool{}
		if cfg.StartPage != "" {
			pages = append(pages, cfg.StartPage)
			seen[cfg.StartPage] = true
		}
		for _, section := range menu.Sections {
			for _, p := range section.Pages {
				if !seen[p.Page] {
					pages = append(pages, p.Page)
					seen[p.Page] = true
				}
			}
		}

		reporter := progress.NewReporter()
		reporter.Start(len(pages))

		var failures []string
		for i, page := range pages {
			reporter.Update(i+1, page)
			if _, err := session.Preview(ctx, client, page); err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", page, err))
			}
		}
		reporter.Finish()

		if len(failures) > 0 {
			for _, f := range failures {
				fmt.Fprintf(os.Stderr, "FAIL %s\n", f)
			}
			return fmt.Errorf("%d of %d pages failed", len(failures), len(pages))
		}

		fmt.Fprintf(os.Stderr, "All %d pages render cleanly\n", len(pages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
