package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the almanac reader server",
	Long:  `Serves the almanac reader: the web shell, the page API, and the websocket every reader tab runs over.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Listen.Port = servePort
		}

		srv, err := server.New(cfg, newContentClient(cfg))
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "almanac v%s serving %q\n", Version, cfg.Title)
		fmt.Fprintf(os.Stderr, "  Content: %s\n", cfg.ContentBase())
		fmt.Fprintf(os.Stderr, "  Start page: %s\n", cfg.StartPage)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override the configured listen port")
	rootCmd.AddCommand(serveCmd)
}
