package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
)

type gormArticleStore struct {
	db *gorm.DB
}

// NewGormArticleStore returns a Postgres-backed ArticleStore.
func NewGormArticleStore(db *gorm.DB) ArticleStore {
	return &gormArticleStore{db: db}
}

func (s *gormArticleStore) Insert(ctx context.Context, a *models.Article) (uint, error) {
	if err := validateArticle(a); err != nil {
		return 0, err
	}

	var existing models.Article
	err := s.db.WithContext(ctx).
		Where("unique_id = ? OR url = ?", a.UniqueID, a.URL).
		First(&existing).Error
	if err == nil {
		return 0, apperr.Duplicate("ArticleStore.Insert", fmt.Errorf("unique_id=%s or url=%s already exists", a.UniqueID, a.URL))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.StorageError("ArticleStore.Insert", err)
	}

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.Duplicate("ArticleStore.Insert", err)
		}
		return 0, apperr.StorageError("ArticleStore.Insert", err)
	}
	return a.ID, nil
}

func (s *gormArticleStore) FindByUniqueID(ctx context.Context, uniqueID string) (*models.Article, error) {
	var a models.Article
	err := s.db.WithContext(ctx).Where("unique_id = ?", uniqueID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.StorageError("ArticleStore.FindByUniqueID", err)
	}
	return &a, nil
}

func (s *gormArticleStore) FindByURL(ctx context.Context, url string) (*models.Article, error) {
	var a models.Article
	err := s.db.WithContext(ctx).Where("url = ?", url).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.StorageError("ArticleStore.FindByURL", err)
	}
	return &a, nil
}

func (s *gormArticleStore) Find(ctx context.Context, filter ArticleFilter) ([]*models.Article, error) {
	q := s.db.WithContext(ctx).Model(&models.Article{})

	if filter.Platform != "" {
		q = q.Where("platform = ?", filter.Platform)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Since != nil {
		q = q.Where("collected_at >= ?", *filter.Since)
	}

	q = q.Order("collected_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var articles []*models.Article
	if err := q.Find(&articles).Error; err != nil {
		return nil, apperr.StorageError("ArticleStore.Find", err)
	}
	return articles, nil
}

func isUniqueViolation(err error) bool {
	// gorm/pgx surface unique violations as *pgconn.PgError with code 23505,
	// but we avoid importing the driver package here; string matching on
	// the standard Postgres error text keeps this store driver-agnostic.
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "SQLSTATE 23505")
}
