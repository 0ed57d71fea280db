package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"feedsync/backend/internal/app"
	"feedsync/backend/internal/network"
)

const rssDoc = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>CLI Feed</title>
<item><title>One</title><guid>cli-1</guid><link>https://example.com/1</link></item>
<item><title>Two</title><guid>cli-2</guid><link>https://example.com/2</link></item>
</channel></rss>`

type allowAll struct{}

func (allowAll) Check(context.Context, string) (bool, error) { return true, nil }

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testOptions() app.Options {
	client := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Host != "feeds.example.com" {
			return &http.Response{StatusCode: http.StatusNotFound, Header: make(http.Header), Body: io.NopCloser(strings.NewReader("")), Request: req}, nil
		}
		return &http.Response{StatusCode: http.StatusOK, Header: make(http.Header), Body: io.NopCloser(strings.NewReader(rssDoc)), Request: req}, nil
	})}
	return app.Options{
		ClientFactory: network.NewClientFactoryForTest(client),
		Checker:       allowAll{},
	}
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FEEDSYNC_DATA_DIR", dir)
	t.Setenv("FEEDSYNC_DB_PATH", filepath.Join(dir, "cli.db"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(testOptions())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_SubscribeListRefreshExport(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "subscribe", "https://feeds.example.com/rss")
	require.NoError(t, err)
	require.Contains(t, out, `"CLI Feed" (2 articles)`)

	out, err = execute(t, "subscribe", "https://feeds.example.com/rss")
	require.ErrorContains(t, err, "already subscribed")
	require.Empty(t, out)

	out, err = execute(t, "list")
	require.NoError(t, err)
	require.Contains(t, out, "TITLE")
	require.Contains(t, out, "CLI Feed")

	out, err = execute(t, "list", "--json")
	require.NoError(t, err)
	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].UnreadCount)

	out, err = execute(t, "refresh")
	require.NoError(t, err)
	require.Contains(t, out, "refreshed 1 of 1 feeds (0 failed)")

	out, err = execute(t, "refresh", "1")
	require.ErrorContains(t, err, "feed not found")
	require.Empty(t, out)

	target := filepath.Join(dir, "export", "subs.opml")
	_, err = execute(t, "export-opml", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(data), `xmlUrl="https://feeds.example.com/rss"`)
}

func TestCLI_Errors(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "export-opml", filepath.Join(t.TempDir(), "x.opml"))
	require.ErrorContains(t, err, "no subscriptions")

	_, err = execute(t, "subscribe", "https://elsewhere.example.com/rss")
	require.ErrorContains(t, err, "fetch failed (http_error)")

	_, err = execute(t, "refresh", "abc")
	require.ErrorContains(t, err, "invalid feed id")

	_, err = execute(t, "subscribe")
	require.Error(t, err)
}
