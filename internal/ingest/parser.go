package ingest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"
	"golang.org/x/net/html/charset"

	"feedsync/backend/internal/model"
)

// UntitledArticle is the title given to items that declare none.
const UntitledArticle = "(no title)"

const atomNamespace = "http://www.w3.org/2005/Atom"

var (
	errNoRootElement       = errors.New("document has no root element")
	errMultipleRootElement = errors.New("document has more than one root element")
)

// Document is a parsed feed. Articles are in document order with FeedID unset.
type Document struct {
	Title    string
	Articles []model.Article
}

// Parser turns RSS 2.0 and Atom 1.0 bodies into article drafts whose
// summary and content have been sanitized.
type Parser struct {
	sanitizer *Sanitizer
	now       func() time.Time
	newGUID   func() string
}

func NewParser(sanitizer *Sanitizer) *Parser {
	if sanitizer == nil {
		sanitizer = NewSanitizer(DefaultSanitizerConfig())
	}
	return &Parser{
		sanitizer: sanitizer,
		now:       func() time.Time { return time.Now().UTC() },
		newGUID:   uuid.NewString,
	}
}

// Parse returns a KindParseError error for malformed XML and a KindNotAFeed
// error for well-formed XML that is neither RSS nor Atom.
func (p *Parser) Parse(body []byte, sourceURL string) (Document, error) {
	fetchedAt := p.now()

	root, err := checkWellFormed(body)
	if err != nil {
		return Document{}, newError(KindParseError, err)
	}

	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeAtom:
		ap := &atom.Parser{}
		feed, err := ap.Parse(bytes.NewReader(body))
		if err != nil {
			return Document{}, newError(KindNotAFeed, err)
		}
		return p.mapAtom(feed, sourceURL, fetchedAt), nil
	case gofeed.FeedTypeRSS:
		// RSS 1.0 is detected as RSS too but is not supported
		if !strings.EqualFold(root.Local, "rss") {
			return Document{}, newError(KindNotAFeed, fmt.Errorf("unsupported root element %q", root.Local))
		}
		feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
		if err != nil {
			return Document{}, newError(KindNotAFeed, err)
		}
		return p.mapRSS(feed, sourceURL, fetchedAt), nil
	default:
		return Document{}, newError(KindNotAFeed, errors.New("not an rss or atom document"))
	}
}

// checkWellFormed walks every token with a strict decoder and returns the
// name of the single root element. Directives such as DOCTYPE are skipped,
// so declared entities are never expanded.
func checkWellFormed(body []byte) (xml.Name, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.Strict = true
	decoder.CharsetReader = charset.NewReaderLabel

	var root xml.Name
	sawRoot := false
	depth := 0
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return xml.Name{}, err
		}
		switch el := token.(type) {
		case xml.StartElement:
			if depth == 0 {
				if sawRoot {
					return xml.Name{}, errMultipleRootElement
				}
				root = el.Name
				sawRoot = true
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if !sawRoot {
		return xml.Name{}, errNoRootElement
	}
	return root, nil
}

func (p *Parser) mapRSS(feed *gofeed.Feed, sourceURL string, fetchedAt time.Time) Document {
	doc := Document{
		Title:    feedTitle(feed.Title, sourceURL),
		Articles: make([]model.Article, 0, len(feed.Items)),
	}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		link := rssLink(item)
		doc.Articles = append(doc.Articles, model.Article{
			FeedGUID:    p.guid(item.GUID, link),
			Title:       articleTitle(item.Title),
			Summary:     p.sanitizer.Sanitize(optionalText(item.Description)),
			Content:     p.sanitizer.Sanitize(optionalText(item.Content)),
			OriginalURL: link,
			PublishedAt: publishedAt(item.PublishedParsed, fetchedAt),
			FetchedAt:   fetchedAt,
		})
	}
	return doc
}

func (p *Parser) mapAtom(feed *atom.Feed, sourceURL string, fetchedAt time.Time) Document {
	doc := Document{
		Title:    feedTitle(feed.Title, sourceURL),
		Articles: make([]model.Article, 0, len(feed.Entries)),
	}
	for _, entry := range feed.Entries {
		if entry == nil {
			continue
		}
		link := atomLink(entry.Links)

		var content *string
		if entry.Content != nil && entry.Content.Src == "" {
			content = optionalText(entry.Content.Value)
		}

		doc.Articles = append(doc.Articles, model.Article{
			FeedGUID:    p.guid(entry.ID, link),
			Title:       articleTitle(entry.Title),
			Summary:     p.sanitizer.Sanitize(optionalText(entry.Summary)),
			Content:     p.sanitizer.Sanitize(content),
			OriginalURL: link,
			PublishedAt: publishedAt(entry.PublishedParsed, fetchedAt),
			FetchedAt:   fetchedAt,
		})
	}
	return doc
}

// atomLink returns the first alternate link, else the first link of any
// relation.
func atomLink(links []*atom.Link) string {
	alternate, first := pickLinks(links)
	if alternate != "" {
		return alternate
	}
	return first
}

// pickLinks returns the first alternate href and the first href of any
// relation. A link without rel is an alternate link.
func pickLinks(links []*atom.Link) (alternate, first string) {
	for _, link := range links {
		if link == nil {
			continue
		}
		href := strings.TrimSpace(link.Href)
		if href == "" {
			continue
		}
		if first == "" {
			first = href
		}
		if link.Rel == "" || link.Rel == "alternate" {
			return href, first
		}
	}
	return "", first
}

// rssLink picks an item's link in order: <link> elements, alternate
// atom:link elements, enclosures, then atom:link of any relation.
func rssLink(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	for _, l := range item.Links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}

	alternate, first := pickLinks(itemAtomLinks(item.Extensions))
	if alternate != "" {
		return alternate
	}
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if u := strings.TrimSpace(enclosure.URL); u != "" {
			return u
		}
	}
	return first
}

// itemAtomLinks collects atom:link extension elements. gofeed keys them by
// the prefix the document declared, or by the namespace URI when the
// prefix is unknown.
func itemAtomLinks(extensions ext.Extensions) []*atom.Link {
	var links []*atom.Link
	for _, key := range []string{"atom", atomNamespace} {
		for _, e := range extensions[key]["link"] {
			links = append(links, &atom.Link{Href: e.Attrs["href"], Rel: e.Attrs["rel"]})
		}
	}
	return links
}

func (p *Parser) guid(declared, link string) string {
	if guid := strings.TrimSpace(declared); guid != "" {
		return guid
	}
	if link != "" {
		return link
	}
	return p.newGUID()
}

func feedTitle(title, sourceURL string) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	return sourceURL
}

func articleTitle(title string) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	return UntitledArticle
}

func optionalText(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func publishedAt(declared *time.Time, fetchedAt time.Time) time.Time {
	if declared == nil || declared.IsZero() {
		return fetchedAt
	}
	return declared.UTC()
}
