package models

import "time"

// PublishedArticle records the identity of a QueueItem that was
// successfully dispatched to a chat target. Kept as its own table rather
// than derived from COMPLETED QueueItem rows — see DESIGN.md for the
// retention-relationship rationale required by spec.md's Open Question.
type PublishedArticle struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UniqueID    string    `gorm:"uniqueIndex;not null;size:512" json:"unique_id"`
	Platform    string    `gorm:"not null;size:100;index" json:"platform"`
	ChannelID   string    `gorm:"size:255" json:"channel_id,omitempty"`
	PublishedAt time.Time `gorm:"not null;index" json:"published_at"`
}

func (PublishedArticle) TableName() string {
	return "published_articles"
}

// ErrorLog is an operability record of an error observed by the pipeline;
// the publisher worker writes one for each Permanent dispatch failure. It is
// not a search/analytics surface over the article store — it exists so an
// operator can see what went wrong without scraping application logs.
type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;not null;index" json:"level"`
	Source    string    `gorm:"size:100;not null;index" json:"source"`
	UniqueID  string    `gorm:"size:512;index" json:"unique_id,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ErrorLog) TableName() string {
	return "error_logs"
}
