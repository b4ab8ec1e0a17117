// Package sources holds concrete Adapter implementations. Per-source
// scraping rules are out of scope (spec.md §1); this package provides one
// generic reference adapter (RSS/Atom) demonstrating the fan-out contract
// against a real feed format rather than source-specific parsing.
package sources

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/zionge2k/news-alert-system/internal/crawler"
)

// RSSAdapter fetches a single RSS/Atom feed URL and maps its entries to
// candidates. tag identifies the source in fan-out outcomes.
type RSSAdapter struct {
	tag      string
	feedURL  string
	category string
	parser   *gofeed.Parser
}

func NewRSSAdapter(tag, feedURL, category string) *RSSAdapter {
	return &RSSAdapter{
		tag:      tag,
		feedURL:  feedURL,
		category: category,
		parser:   gofeed.NewParser(),
	}
}

func (a *RSSAdapter) Tag() string { return a.tag }

func (a *RSSAdapter) Fetch(ctx context.Context) ([]crawler.Candidate, error) {
	feed, err := a.parser.ParseURLWithContext(a.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", a.feedURL, err)
	}

	candidates := make([]crawler.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		candidates = append(candidates, crawler.Candidate{
			Platform:    a.tag,
			ArticleID:   item.GUID,
			URL:         item.Link,
			Title:       item.Title,
			Content:     item.Description,
			Author:      author,
			Category:    a.category,
			Metadata:    map[string]any{"guid": item.GUID},
			PublishedAt: item.PublishedParsed,
		})
	}
	return candidates, nil
}
