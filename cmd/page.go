package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/outline"
)

var (
	pageRaw       bool
	pageOutline   bool
	pageCopyBlock int
)

var pageCmd = &cobra.Command{
	Use:   "page [path]",
	Short: "Render an almanac page in the terminal",
	Long: `Fetches one page and renders it in the terminal. With --raw the Markdown
is printed untouched, --outline prints the numbered heading outline, and
--copy-block N puts the Nth fenced code block on the clipboard instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		page := cfg.StartPage
		if len(args) == 1 {
			page = args[0]
		}

		body, err := newContentClient(cfg).Page(context.Background(), page)
		if err != nil {
			return err
		}

		if pageCopyBlock > 0 {
			block, err := nthCodeBlock(string(body), pageCopyBlock)
			if err != nil {
				return err
			}
			if err := clipboard.WriteAll(block); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Copied code block %d of %s\n", pageCopyBlock, page)
			return nil
		}

		if pageOutline {
			for _, h := range outline.Build(string(body)) {
				fmt.Printf("%s%s %s\n", strings.Repeat("  ", h.Level-1), h.ID, h.Title)
			}
			return nil
		}

		if pageRaw {
			fmt.Print(string(body))
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}

		out, err := renderer.Render(string(body))
		if err != nil {
			return fmt.Errorf("rendering %s: %w", page, err)
		}
		fmt.Print(out)
		return nil
	},
}

// nthCodeBlock returns the contents of the Nth fenced code block, 1-based.
func nthCodeBlock(markdown string, n int) (string, error) {
	var (
		inBlock bool
		count   int
		lines   []string
	)
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if !inBlock {
				inBlock = true
				count++
				lines = lines[:0]
				continue
			}
			inBlock = false
			if count == n {
				return strings.Join(lines, "\n") + "\n", nil
			}
			continue
		}
		if inBlock {
			lines = append(lines, line)
		}
	}
	if inBlock && count == n {
		return strings.Join(lines, "\n") + "\n", nil
	}
	if count == 0 {
		return "", errors.New("the page has no fenced code blocks")
	}
	return "", fmt.Errorf("the page has %d code block(s), not %d", count, n)
}

func init() {
	pageCmd.Flags().BoolVar(&pageRaw, "raw", false, "print the raw Markdown")
	pageCmd.Flags().BoolVar(&pageOutline, "outline", false, "print the numbered heading outline")
	pageCmd.Flags().IntVar(&pageCopyBlock, "copy-block", 0, "copy the Nth fenced code block to the clipboard")
	rootCmd.AddCommand(pageCmd)
}
