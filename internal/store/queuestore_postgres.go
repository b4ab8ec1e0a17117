package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
)

type gormQueueStore struct {
	db *gorm.DB
}

// NewGormQueueStore returns a Postgres-backed QueueStore.
func NewGormQueueStore(db *gorm.DB) QueueStore {
	return &gormQueueStore{db: db}
}

func (s *gormQueueStore) Enqueue(ctx context.Context, item *models.QueueItem) (bool, error) {
	now := time.Now().UTC()
	item.Status = models.StatusPending
	item.CreatedAt = now
	item.UpdatedAt = now

	err := s.db.WithContext(ctx).Create(item).Error
	if err == nil {
		return true, nil
	}
	if isUniqueViolation(err) {
		return false, nil
	}
	return false, apperr.StorageError("QueueStore.Enqueue", err)
}

// Claim locates PENDING candidates FIFO by created_at (id ascending as a
// tie-break) and, for each, performs a conditional UPDATE that only
// succeeds if the row is still PENDING. RowsAffected==1 means this caller
// won the race; RowsAffected==0 means a sibling claimed it first and the
// loop moves to the next candidate. This is the only primitive in the
// store required to be linearizable.
func (s *gormQueueStore) Claim(ctx context.Context, limit int) ([]*models.QueueItem, error) {
	var claimed []*models.QueueItem
	now := time.Now().UTC()

	// Over-fetch candidates since some may lose their CAS race to a
	// sibling worker; this bounds retries without an unbounded loop.
	const overfetchFactor = 3

	for len(claimed) < limit {
		need := limit - len(claimed)
		var candidates []models.QueueItem
		err := s.db.WithContext(ctx).
			Where("status = ?", models.StatusPending).
			Order("created_at ASC, id ASC").
			Limit(need * overfetchFactor).
			Find(&candidates).Error
		if err != nil {
			return claimed, apperr.StorageError("QueueStore.Claim", err)
		}
		if len(candidates) == 0 {
			break
		}

		progressed := false
		for _, cand := range candidates {
			if len(claimed) >= limit {
				break
			}
			res := s.db.WithContext(ctx).
				Model(&models.QueueItem{}).
				Where("id = ? AND status = ?", cand.ID, models.StatusPending).
				Updates(map[string]interface{}{
					"status":     models.StatusProcessing,
					"claimed_at": now,
					"updated_at": now,
				})
			if res.Error != nil {
				return claimed, apperr.StorageError("QueueStore.Claim", res.Error)
			}
			if res.RowsAffected == 1 {
				cand.Status = models.StatusProcessing
				cand.ClaimedAt = &now
				cand.UpdatedAt = now
				item := cand
				claimed = append(claimed, &item)
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return claimed, nil
}

func (s *gormQueueStore) Complete(ctx context.Context, uniqueID string) (bool, error) {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).
		Model(&models.QueueItem{}).
		Where("unique_id = ? AND status = ?", uniqueID, models.StatusProcessing).
		Updates(map[string]interface{}{
			"status":        models.StatusCompleted,
			"published_at":  now,
			"updated_at":    now,
			"error_message": "",
		})
	if res.Error != nil {
		return false, apperr.StorageError("QueueStore.Complete", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormQueueStore) Fail(ctx context.Context, uniqueID string, errorMessage string) (bool, error) {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).
		Model(&models.QueueItem{}).
		Where("unique_id = ? AND status = ?", uniqueID, models.StatusProcessing).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": truncateError(errorMessage),
			"retry_count":   gorm.Expr("retry_count + 1"),
			"updated_at":    now,
		})
	if res.Error != nil {
		return false, apperr.StorageError("QueueStore.Fail", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormQueueStore) Retry(ctx context.Context, maxRetries int) (int, error) {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).
		Model(&models.QueueItem{}).
		Where("status = ? AND retry_count < ?", models.StatusFailed, maxRetries).
		Updates(map[string]interface{}{
			"status":        models.StatusPending,
			"error_message": "",
			"updated_at":    now,
		})
	if res.Error != nil {
		return 0, apperr.StorageError("QueueStore.Retry", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *gormQueueStore) IsDuplicate(ctx context.Context, uniqueID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.QueueItem{}).
		Where("unique_id = ?", uniqueID).
		Count(&count).Error
	if err != nil {
		return false, apperr.StorageError("QueueStore.IsDuplicate", err)
	}
	return count > 0, nil
}

func (s *gormQueueStore) Status(ctx context.Context) (QueueStatusCounts, error) {
	counts := QueueStatusCounts{
		models.StatusPending:    0,
		models.StatusProcessing: 0,
		models.StatusCompleted:  0,
		models.StatusFailed:     0,
	}

	type row struct {
		Status models.QueueStatus
		Count  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&models.QueueItem{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, apperr.StorageError("QueueStore.Status", err)
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *gormQueueStore) Clean(ctx context.Context, ageThreshold time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-ageThreshold)
	res := s.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.StatusCompleted, cutoff).
		Delete(&models.QueueItem{})
	if res.Error != nil {
		return 0, apperr.StorageError("QueueStore.Clean", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *gormQueueStore) SweepStuck(ctx context.Context, stuckThreshold time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-stuckThreshold)
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).
		Model(&models.QueueItem{}).
		Where("status = ? AND claimed_at < ?", models.StatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":      models.StatusPending,
			"retry_count": gorm.Expr("retry_count + 1"),
			"claimed_at":  nil,
			"updated_at":  now,
		})
	if res.Error != nil {
		return 0, apperr.StorageError("QueueStore.SweepStuck", res.Error)
	}
	return int(res.RowsAffected), nil
}
