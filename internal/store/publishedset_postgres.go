package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
)

type gormPublishedSet struct {
	db *gorm.DB
}

// NewGormPublishedSet returns a Postgres-backed PublishedSet.
func NewGormPublishedSet(db *gorm.DB) PublishedSet {
	return &gormPublishedSet{db: db}
}

func (s *gormPublishedSet) Contains(ctx context.Context, uniqueID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.PublishedArticle{}).
		Where("unique_id = ?", uniqueID).
		Count(&count).Error
	if err != nil {
		return false, apperr.StorageError("PublishedSet.Contains", err)
	}
	return count > 0, nil
}

func (s *gormPublishedSet) Add(ctx context.Context, uniqueID, platform, channelID string) error {
	var existing models.PublishedArticle
	err := s.db.WithContext(ctx).Where("unique_id = ?", uniqueID).First(&existing).Error
	if err == nil {
		return nil // already present: idempotent no-op
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.StorageError("PublishedSet.Add", err)
	}

	record := &models.PublishedArticle{
		UniqueID:    uniqueID,
		Platform:    platform,
		ChannelID:   channelID,
		PublishedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return apperr.StorageError("PublishedSet.Add", err)
	}
	return nil
}

func (s *gormPublishedSet) CountByPlatform(ctx context.Context) (map[string]int, error) {
	type row struct {
		Platform string
		Count    int
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&models.PublishedArticle{}).
		Select("platform, count(*) as count").
		Group("platform").
		Scan(&rows).Error; err != nil {
		return nil, apperr.StorageError("PublishedSet.CountByPlatform", err)
	}

	result := make(map[string]int, len(rows))
	for _, r := range rows {
		result[r.Platform] = r.Count
	}
	return result, nil
}

func (s *gormPublishedSet) Clean(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-age)
	res := s.db.WithContext(ctx).
		Where("published_at < ?", cutoff).
		Delete(&models.PublishedArticle{})
	if res.Error != nil {
		return 0, apperr.StorageError("PublishedSet.Clean", res.Error)
	}
	return int(res.RowsAffected), nil
}
