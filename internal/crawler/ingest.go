package crawler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
	"github.com/zionge2k/news-alert-system/internal/store"
)

// IngestResult summarizes one crawl-and-store cycle.
type IngestResult struct {
	Inserted int
	Skipped  int
	Failed   map[string]error // source -> fan-out error
}

// RunCycle fans out to every adapter, then inserts each surviving
// candidate into the Article Store, deduplicating by unique_id first and
// url second (spec.md §4.1's dedup rule). A Duplicate is counted as
// skipped, not as a failure; any other ArticleStore error is logged and
// skipped so one bad candidate cannot abort the rest of the cycle —
// mirroring the same non-cancelling isolation the fan-out itself provides.
func RunCycle(ctx context.Context, adapters map[string]Adapter, articles store.ArticleStore, log *zap.Logger) IngestResult {
	outcomes := FanOut(ctx, adapters, log)

	result := IngestResult{Failed: make(map[string]error)}
	now := time.Now().UTC()

	for _, o := range outcomes {
		if o.Err != nil {
			result.Failed[o.Source] = o.Err
			continue
		}

		for _, c := range o.Candidates {
			uniqueID := models.DeriveUniqueID(c.Platform, c.ArticleID, c.URL)

			if existing, _ := articles.FindByUniqueID(ctx, uniqueID); existing != nil {
				result.Skipped++
				continue
			}
			if c.ArticleID == "" {
				if existing, _ := articles.FindByURL(ctx, c.URL); existing != nil {
					result.Skipped++
					continue
				}
			}

			article := &models.Article{
				UniqueID:    uniqueID,
				Platform:    c.Platform,
				ArticleID:   c.ArticleID,
				URL:         c.URL,
				Title:       c.Title,
				Content:     c.Content,
				Author:      c.Author,
				Category:    c.Category,
				Metadata:    c.Metadata,
				PublishedAt: c.PublishedAt,
				CollectedAt: now,
			}

			if _, err := articles.Insert(ctx, article); err != nil {
				if apperr.IsDuplicate(err) {
					result.Skipped++
					continue
				}
				log.Error("failed to insert crawled article",
					zap.String("source", o.Source), zap.String("unique_id", uniqueID), zap.Error(err))
				continue
			}
			result.Inserted++
		}
	}

	return result
}
