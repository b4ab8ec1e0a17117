// Package store holds the narrow repository interfaces for the Article
// Store, Queue Store, and Published Set, each with a Postgres-backed
// implementation and an in-memory implementation satisfying the same
// invariants for tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
)

// ArticleFilter narrows a Find query. Zero values mean "no filter" for
// that dimension.
type ArticleFilter struct {
	Platform string
	Category string
	Since    *time.Time
	Limit    int
}

// ArticleStore is the durable collection of news articles keyed by their
// composite identity (spec.md §4.1).
type ArticleStore interface {
	Insert(ctx context.Context, a *models.Article) (uint, error)
	FindByUniqueID(ctx context.Context, uniqueID string) (*models.Article, error)
	FindByURL(ctx context.Context, url string) (*models.Article, error)
	Find(ctx context.Context, filter ArticleFilter) ([]*models.Article, error)
}

var (
	errArticleMissingFields = errors.New("article missing one of: platform, url, title")
	errArticleDuplicate     = errors.New("article with this unique_id or url already exists")
)

func validateArticle(a *models.Article) error {
	if a.Platform == "" || a.URL == "" || a.Title == "" {
		return apperr.InvalidInput("ArticleStore.Insert", errArticleMissingFields)
	}
	return nil
}
