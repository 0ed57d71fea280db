// Package cli implements the feedctl command line tool.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"feedsync/backend/internal/app"
	"feedsync/backend/internal/config"
	"feedsync/backend/internal/logger"
)

type state struct {
	opts    app.Options
	verbose bool
	app     *app.App
}

// NewRootCommand builds feedctl. opts is passed to app.New when a command
// opens the database.
func NewRootCommand(opts app.Options) *cobra.Command {
	s := &state{opts: opts}

	root := &cobra.Command{
		Use:   "feedctl",
		Short: "Manage feedsync subscriptions from the command line",
		Long: `feedctl operates directly on the feedsync database configured through
the FEEDSYNC_* environment variables.

Example usage:
  feedctl subscribe https://example.com/feed.xml
  feedctl refresh               # Refresh every feed
  feedctl refresh 123456789     # Refresh one feed
  feedctl list
  feedctl export-opml subscriptions.opml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newSubscribeCmd(s),
		newRefreshCmd(s),
		newListCmd(s),
		newExportOPMLCmd(s),
	)
	return root
}

// withApp opens the database for the duration of one command.
func (s *state) withApp(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := s.open(cmd); err != nil {
			return err
		}
		defer func() {
			if closeErr := s.close(); err == nil {
				err = closeErr
			}
		}()
		return run(cmd, args)
	}
}

func (s *state) open(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stdout carries command output; logs go to stderr
	level := slog.LevelWarn
	if s.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, level, cfg.LogFormat)))

	a, err := app.New(cfg, s.opts)
	if err != nil {
		return err
	}
	s.app = a
	return nil
}

func (s *state) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}
