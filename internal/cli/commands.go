package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"feedsync/backend/internal/opml"
	"feedsync/backend/internal/service"
)

func newSubscribeCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe URL",
		Short: "Fetch a feed and subscribe to it",
		Args:  cobra.ExactArgs(1),
		RunE: s.withApp(func(cmd *cobra.Command, args []string) error {
			summary, err := s.app.Feeds.Subscribe(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subscribed %d %q (%d articles)\n", summary.ID, summary.Title, summary.ArticleCount)
			return nil
		}),
	}
}

func newRefreshCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [FEED_ID]",
		Short: "Refresh one feed, or every feed when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: s.withApp(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				summary, err := s.app.Refresh.RefreshAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "refreshed %d of %d feeds (%d failed)\n", summary.Refreshed, summary.Feeds, summary.Failed)
				return nil
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid feed id %q", args[0])
			}
			result, err := s.app.Feeds.Refresh(cmd.Context(), id)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "refreshed %d: %d new, %d updated, %d unread\n", result.FeedID, result.Inserted, result.Updated, result.UnreadCount)
			return nil
		}),
	}
}

type listEntry struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	UnreadCount     int     `json:"unreadCount"`
	LastRefreshedAt *string `json:"lastRefreshedAt,omitempty"`
}

func newListCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List subscriptions with their unread counts",
		Args:    cobra.NoArgs,
		RunE: s.withApp(func(cmd *cobra.Command, args []string) error {
			feeds, err := s.app.Feeds.List(cmd.Context())
			if err != nil {
				return err
			}

			entries := make([]listEntry, 0, len(feeds))
			for _, feed := range feeds {
				entry := listEntry{ID: feed.ID, Title: feed.Title, URL: feed.URL, UnreadCount: feed.UnreadCount}
				if feed.LastRefreshedAt != nil {
					formatted := feed.LastRefreshedAt.UTC().Format(time.RFC3339)
					entry.LastRefreshedAt = &formatted
				}
				entries = append(entries, entry)
			}

			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tUNREAD\tURL")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", e.ID, e.Title, e.UnreadCount, e.URL)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

func newExportOPMLCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "export-opml PATH",
		Short: "Write the subscriptions to an OPML 2.0 file",
		Args:  cobra.ExactArgs(1),
		RunE: s.withApp(func(cmd *cobra.Command, args []string) error {
			payload, err := s.app.OPML.Export(cmd.Context())
			if err != nil {
				return describe(err)
			}
			if err := opml.WriteFile(args[0], payload); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		}),
	}
}

// describe turns service errors into messages fit for a terminal.
func describe(err error) error {
	var fetchErr *service.FetchFailedError
	var conflict *service.FeedConflictError
	switch {
	case errors.As(err, &fetchErr):
		if fetchErr.Err != nil {
			return fmt.Errorf("fetch failed (%s): %v", fetchErr.Kind, fetchErr.Err)
		}
		return fmt.Errorf("fetch failed (%s)", fetchErr.Kind)
	case errors.As(err, &conflict):
		return fmt.Errorf("already subscribed as feed %d", conflict.ExistingFeed.ID)
	case errors.Is(err, service.ErrNotFound):
		return errors.New("feed not found")
	case errors.Is(err, service.ErrNoSubscriptions):
		return errors.New("no subscriptions to export")
	default:
		return err
	}
}
