package ingest

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>  Example Feed  </title>
  <link>https://example.com</link>
  <description>Desc</description>
  <item>
    <title>First</title>
    <guid isPermaLink="false">g1</guid>
    <link>https://example.com/1</link>
    <description><![CDATA[<p><b>Bold</b></p><script>x</script>]]></description>
    <content:encoded><![CDATA[<p>Full <a href="javascript:alert(1)">body</a></p>]]></content:encoded>
    <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
  </item>
  <item>
    <title></title>
    <link>https://example.com/2</link>
  </item>
  <item>
    <description>no identifiers at all</description>
  </item>
  <item>
    <description>also anonymous</description>
  </item>
</channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Example</title>
  <id>urn:feed</id>
  <updated>2024-03-01T00:00:00Z</updated>
  <entry>
    <title>Entry One</title>
    <id>urn:entry:1</id>
    <link rel="self" href="https://example.com/self/1"/>
    <link rel="alternate" href="https://example.com/1"/>
    <published>2024-02-01T10:00:00Z</published>
    <updated>2024-02-02T10:00:00Z</updated>
    <summary type="html">&lt;p&gt;Sum&lt;/p&gt;</summary>
    <content type="html">&lt;p&gt;Body&lt;/p&gt;</content>
  </entry>
  <entry>
    <title>Entry Two</title>
    <link rel="enclosure" href="https://example.com/audio.mp3"/>
    <link href="https://example.com/2"/>
    <updated>2024-02-03T10:00:00Z</updated>
    <content src="https://example.com/external"/>
  </entry>
  <entry>
    <title>Entry Three</title>
    <link rel="related" href="https://example.com/related"/>
  </entry>
</feed>`

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestParser() *Parser {
	p := NewParser(nil)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestParser_RSS(t *testing.T) {
	doc, err := newTestParser().Parse([]byte(rssFeed), "https://example.com/rss")
	require.NoError(t, err)
	require.Equal(t, "Example Feed", doc.Title)
	require.Len(t, doc.Articles, 4)

	first := doc.Articles[0]
	require.Equal(t, "g1", first.FeedGUID)
	require.Equal(t, "First", first.Title)
	require.Equal(t, "https://example.com/1", first.OriginalURL)
	require.Equal(t, "<p><b>Bold</b></p>", *first.Summary)
	require.NotNil(t, first.Content)
	require.NotContains(t, *first.Content, "javascript")
	require.Contains(t, *first.Content, "body")
	require.True(t, time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC).Equal(first.PublishedAt))
	require.Equal(t, fixedNow, first.FetchedAt)
	require.False(t, first.Read)
	require.Zero(t, first.FeedID)

	second := doc.Articles[1]
	require.Equal(t, "https://example.com/2", second.FeedGUID)
	require.Equal(t, UntitledArticle, second.Title)
	require.Nil(t, second.Summary)
	require.Nil(t, second.Content)
	require.Equal(t, fixedNow, second.PublishedAt)

	for _, anon := range doc.Articles[2:] {
		require.NotEmpty(t, anon.FeedGUID)
		require.Equal(t, "", anon.OriginalURL)
		require.Equal(t, fixedNow, anon.FetchedAt)
	}
	require.NotEqual(t, doc.Articles[2].FeedGUID, doc.Articles[3].FeedGUID)
}

func TestParser_FallbackGUIDsAreUnique(t *testing.T) {
	body := `<rss version="2.0"><channel><title>t</title>`
	for i := 0; i < 50; i++ {
		body += `<item><title>n` + strconv.Itoa(i) + `</title></item>`
	}
	body += `</channel></rss>`

	doc, err := newTestParser().Parse([]byte(body), "https://example.com/rss")
	require.NoError(t, err)
	require.Len(t, doc.Articles, 50)

	seen := make(map[string]struct{})
	for _, a := range doc.Articles {
		require.NotEmpty(t, a.FeedGUID)
		require.Empty(t, a.OriginalURL)
		seen[a.FeedGUID] = struct{}{}
	}
	require.Len(t, seen, 50)
}

func TestParser_Atom(t *testing.T) {
	doc, err := newTestParser().Parse([]byte(atomFeed), "https://example.com/atom")
	require.NoError(t, err)
	require.Equal(t, "Atom Example", doc.Title)
	require.Len(t, doc.Articles, 3)

	one := doc.Articles[0]
	require.Equal(t, "urn:entry:1", one.FeedGUID)
	require.Equal(t, "https://example.com/1", one.OriginalURL)
	require.Equal(t, "<p>Sum</p>", *one.Summary)
	require.Equal(t, "<p>Body</p>", *one.Content)
	require.True(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC).Equal(one.PublishedAt))

	two := doc.Articles[1]
	require.Equal(t, "https://example.com/2", two.FeedGUID)
	require.Equal(t, "https://example.com/2", two.OriginalURL)
	require.Nil(t, two.Content)
	require.Nil(t, two.Summary)
	require.Equal(t, fixedNow, two.PublishedAt)

	three := doc.Articles[2]
	require.Equal(t, "https://example.com/related", three.FeedGUID)
	require.Equal(t, "https://example.com/related", three.OriginalURL)
}

func TestParser_FeedTitleFallsBackToSource(t *testing.T) {
	body := `<rss version="2.0"><channel><title>   </title></channel></rss>`
	doc, err := newTestParser().Parse([]byte(body), "https://example.com/rss")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/rss", doc.Title)
	require.Empty(t, doc.Articles)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind Kind
	}{
		{name: "empty", body: "", kind: KindParseError},
		{name: "garbage", body: "this is not xml", kind: KindParseError},
		{name: "unclosed", body: `<rss><channel><title>x</title></rss>`, kind: KindParseError},
		{name: "entity expansion", body: `<?xml version="1.0"?>
<!DOCTYPE rss [<!ENTITY xxe SYSTEM "file:///etc/passwd">]>
<rss version="2.0"><channel><title>&xxe;</title></channel></rss>`, kind: KindParseError},
		{name: "html", body: `<html><body><p>hi</p></body></html>`, kind: KindNotAFeed},
		{name: "other xml", body: `<?xml version="1.0"?><note><to>a</to></note>`, kind: KindNotAFeed},
		{name: "rss 1.0", body: `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns="http://purl.org/rss/1.0/">
<channel><title>t</title></channel><item><title>a</title><link>https://example.com/a</link></item>
</rdf:RDF>`, kind: KindNotAFeed},
		{name: "two roots", body: `<rss version="2.0"><channel><title>a</title></channel></rss><rss version="2.0"><channel><title>b</title></channel></rss>`, kind: KindParseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser().Parse([]byte(tt.body), "https://example.com/feed")
			kind, ok := KindOf(err)
			require.True(t, ok, "error %v", err)
			require.Equal(t, tt.kind, kind)
		})
	}
}

func TestParser_DeclaredCharset(t *testing.T) {
	body := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><rss version=\"2.0\"><channel><title>Caf\xe9</title></channel></rss>")
	_, err := newTestParser().Parse(body, "https://example.com/rss")
	require.NoError(t, err)
}

func TestParser_RSSLinkFallbacks(t *testing.T) {
	tests := []struct {
		name string
		item string
		want string
	}{
		{
			name: "enclosure",
			item: `<item><title>ep</title><enclosure url="https://cdn.example.com/ep1.mp3" length="10" type="audio/mpeg"/></item>`,
			want: "https://cdn.example.com/ep1.mp3",
		},
		{
			name: "atom alternate",
			item: `<item><title>a</title><atom:link rel="alternate" href="https://example.com/a"/></item>`,
			want: "https://example.com/a",
		},
		{
			name: "alternate before enclosure",
			item: `<item><title>a</title><enclosure url="https://cdn.example.com/a.mp3"/><atom:link href="https://example.com/a"/></item>`,
			want: "https://example.com/a",
		},
		{
			name: "atom enclosure",
			item: `<item><title>a</title><atom:link rel="enclosure" href="https://cdn.example.com/a.ogg"/></item>`,
			want: "https://cdn.example.com/a.ogg",
		},
		{
			name: "link element wins",
			item: `<item><title>a</title><link>https://example.com/page</link><enclosure url="https://cdn.example.com/a.mp3"/></item>`,
			want: "https://example.com/page",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom"><channel><title>t</title>` +
				tt.item + `</channel></rss>`)

			first, err := newTestParser().Parse(body, "https://example.com/rss")
			require.NoError(t, err)
			require.Len(t, first.Articles, 1)
			require.Equal(t, tt.want, first.Articles[0].OriginalURL)
			require.Equal(t, tt.want, first.Articles[0].FeedGUID)

			second, err := newTestParser().Parse(body, "https://example.com/rss")
			require.NoError(t, err)
			require.Equal(t, first.Articles[0].FeedGUID, second.Articles[0].FeedGUID)
		})
	}
}

func TestParser_BlankDescriptionHasNoSummary(t *testing.T) {
	body := []byte(`<rss version="2.0"><channel><title>t</title>
<item><title>a</title><guid>a</guid><description></description></item>
<item><title>b</title><guid>b</guid><description>   </description></item>
</channel></rss>`)

	doc, err := newTestParser().Parse(body, "https://example.com/rss")
	require.NoError(t, err)
	require.Len(t, doc.Articles, 2)
	for _, a := range doc.Articles {
		require.Nil(t, a.Summary, a.FeedGUID)
	}
}
