package service

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zionge2k/news-alert-system/internal/models"
)

// MonitoringService records operational errors worth a durable trail beyond
// the log file. Its one writer is the publisher worker, which records each
// Permanent dispatch failure together with the item's unique_id.
type MonitoringService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMonitoringService(db *gorm.DB, logger *zap.Logger) *MonitoringService {
	return &MonitoringService{db: db, logger: logger}
}

func (m *MonitoringService) RecordError(level, source, uniqueID, message string) error {
	entry := &models.ErrorLog{
		Level:     level,
		Source:    source,
		UniqueID:  uniqueID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.db.Create(entry).Error; err != nil {
		m.logger.Error("failed to persist error log", zap.Error(err))
		return err
	}
	return nil
}

func (m *MonitoringService) RecentErrors(limit int) ([]models.ErrorLog, error) {
	var entries []models.ErrorLog
	err := m.db.Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}

// CleanupOldErrors deletes error_log rows older than daysToKeep, the same
// shape of housekeeping the queue engine does for completed items.
func (m *MonitoringService) CleanupOldErrors(daysToKeep int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep)
	return m.db.Where("created_at < ?", cutoff).Delete(&models.ErrorLog{}).Error
}
