package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zionge2k/news-alert-system/internal/models"
)

// memoryQueueStore is an in-memory QueueStore for tests. The single mutex
// held across the candidate-scan-and-update makes Claim trivially
// linearizable, which is the one property the in-memory implementation
// must preserve to stand in for the Postgres store in race tests.
type memoryQueueStore struct {
	mu       sync.Mutex
	byID     map[uint]*models.QueueItem
	byUnique map[string]uint
	nextID   uint
}

// NewMemoryQueueStore returns an in-memory QueueStore.
func NewMemoryQueueStore() QueueStore {
	return &memoryQueueStore{
		byID:     make(map[uint]*models.QueueItem),
		byUnique: make(map[string]uint),
	}
}

func (s *memoryQueueStore) Enqueue(ctx context.Context, item *models.QueueItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUnique[item.UniqueID]; exists {
		return false, nil
	}

	now := time.Now().UTC()
	s.nextID++
	cp := *item
	cp.ID = s.nextID
	cp.Status = models.StatusPending
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.byID[cp.ID] = &cp
	s.byUnique[cp.UniqueID] = cp.ID

	*item = cp
	return true, nil
}

func (s *memoryQueueStore) Claim(ctx context.Context, limit int) ([]*models.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*models.QueueItem
	for _, it := range s.byID {
		if it.Status == models.StatusPending {
			pending = append(pending, it)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	now := time.Now().UTC()
	var claimed []*models.QueueItem
	for _, it := range pending {
		if len(claimed) >= limit {
			break
		}
		it.Status = models.StatusProcessing
		it.ClaimedAt = &now
		it.UpdatedAt = now
		cp := *it
		claimed = append(claimed, &cp)
	}
	return claimed, nil
}

func (s *memoryQueueStore) Complete(ctx context.Context, uniqueID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUnique[uniqueID]
	if !ok {
		return false, nil
	}
	it := s.byID[id]
	if it.Status != models.StatusProcessing {
		return false, nil
	}

	now := time.Now().UTC()
	it.Status = models.StatusCompleted
	it.PublishedAt = &now
	it.UpdatedAt = now
	it.ErrorMessage = ""
	return true, nil
}

func (s *memoryQueueStore) Fail(ctx context.Context, uniqueID string, errorMessage string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUnique[uniqueID]
	if !ok {
		return false, nil
	}
	it := s.byID[id]
	if it.Status != models.StatusProcessing {
		return false, nil
	}

	it.Status = models.StatusFailed
	it.ErrorMessage = truncateError(errorMessage)
	it.RetryCount++
	it.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *memoryQueueStore) Retry(ctx context.Context, maxRetries int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	count := 0
	for _, it := range s.byID {
		if it.Status == models.StatusFailed && it.RetryCount < maxRetries {
			it.Status = models.StatusPending
			it.ErrorMessage = ""
			it.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (s *memoryQueueStore) IsDuplicate(ctx context.Context, uniqueID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.byUnique[uniqueID]
	return exists, nil
}

func (s *memoryQueueStore) Status(ctx context.Context) (QueueStatusCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := QueueStatusCounts{
		models.StatusPending:    0,
		models.StatusProcessing: 0,
		models.StatusCompleted:  0,
		models.StatusFailed:     0,
	}
	for _, it := range s.byID {
		counts[it.Status]++
	}
	return counts, nil
}

func (s *memoryQueueStore) Clean(ctx context.Context, ageThreshold time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-ageThreshold)
	count := 0
	for id, it := range s.byID {
		if it.Status == models.StatusCompleted && it.UpdatedAt.Before(cutoff) {
			delete(s.byID, id)
			delete(s.byUnique, it.UniqueID)
			count++
		}
	}
	return count, nil
}

func (s *memoryQueueStore) SweepStuck(ctx context.Context, stuckThreshold time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-stuckThreshold)
	now := time.Now().UTC()
	count := 0
	for _, it := range s.byID {
		if it.Status == models.StatusProcessing && it.ClaimedAt != nil && it.ClaimedAt.Before(cutoff) {
			it.Status = models.StatusPending
			it.RetryCount++
			it.ClaimedAt = nil
			it.UpdatedAt = now
			count++
		}
	}
	return count, nil
}
