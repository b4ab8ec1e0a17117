package models

import "time"

// QueueStatus is one of the four states a QueueItem can occupy. Transitions
// between them are owned entirely by the queue engine; nothing outside it
// writes to the status column directly.
type QueueStatus string

const (
	StatusPending    QueueStatus = "PENDING"
	StatusProcessing QueueStatus = "PROCESSING"
	StatusCompleted  QueueStatus = "COMPLETED"
	StatusFailed     QueueStatus = "FAILED"
)

// MaxErrorMessageLen bounds error_message to prevent unbounded growth from
// a misbehaving chat target or adapter.
const MaxErrorMessageLen = 1024

// QueueItem is the publication-lifecycle record for one Article. Fields
// beyond unique_id are denormalized from the Article at enqueue time so the
// publisher worker never has to join back to the article store.
type QueueItem struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UniqueID    string      `gorm:"uniqueIndex;not null;size:512" json:"unique_id"`
	ArticleID   string      `gorm:"size:255" json:"article_id"`
	Platform    string      `gorm:"not null;size:100" json:"platform"`
	Title       string      `gorm:"not null;size:1000" json:"title"`
	URL         string      `gorm:"not null;size:2048" json:"url"`
	Content     string      `gorm:"type:text" json:"content"`
	Category    string      `gorm:"size:100" json:"category"`
	PublishedAt *time.Time  `json:"published_at"`
	Status      QueueStatus `gorm:"not null;size:20;index:idx_queue_status_created" json:"status"`
	RetryCount  int         `gorm:"not null;default:0" json:"retry_count"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt   time.Time   `gorm:"not null;index:idx_queue_status_created" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
	ClaimedAt   *time.Time  `json:"claimed_at,omitempty"`
}

func (QueueItem) TableName() string {
	return "queue_items"
}
