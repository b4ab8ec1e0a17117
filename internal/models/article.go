package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Article is a normalized news item with an identity derived from its
// source platform and source-assigned id (falling back to its URL).
// Articles are never mutated after insertion and are retained indefinitely;
// nothing in this package deletes them.
type Article struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UniqueID    string       `gorm:"uniqueIndex;not null;size:512" json:"unique_id"`
	Platform    string       `gorm:"not null;size:100;index:idx_article_platform_category" json:"platform"`
	ArticleID   string       `gorm:"size:255" json:"article_id"`
	URL         string       `gorm:"uniqueIndex;not null;size:2048" json:"url"`
	Title       string       `gorm:"not null;size:1000" json:"title"`
	Content     string       `gorm:"type:text" json:"content"`
	Author      string       `gorm:"size:255" json:"author"`
	Category    string       `gorm:"size:100;index:idx_article_platform_category" json:"category"`
	Metadata    JSONMetadata `gorm:"type:jsonb" json:"metadata"`
	PublishedAt *time.Time   `json:"published_at"`
	CollectedAt time.Time    `gorm:"not null;index" json:"collected_at"`
}

func (Article) TableName() string {
	return "articles"
}

// DeriveUniqueID computes the business key "{platform}_{article_id}" when
// articleID is present, falling back to "{platform}_" followed by the hex
// md5 hash of the canonical URL.
func DeriveUniqueID(platform, articleID, url string) string {
	if articleID != "" {
		return fmt.Sprintf("%s_%s", platform, articleID)
	}
	sum := md5.Sum([]byte(url))
	return fmt.Sprintf("%s_%s", platform, hex.EncodeToString(sum[:]))
}
