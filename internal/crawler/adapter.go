// Package crawler implements the fan-out contract of spec.md §4.2: run N
// source adapters concurrently, wait for all, and isolate one adapter's
// failure from the rest.
package crawler

import (
	"context"
	"time"
)

// Candidate is a not-yet-deduplicated article as returned by a source
// adapter, before it has been checked against the Article Store.
type Candidate struct {
	Platform    string
	ArticleID   string
	URL         string
	Title       string
	Content     string
	Author      string
	Category    string
	Metadata    map[string]any
	PublishedAt *time.Time
}

// Adapter is a single news source. Fetch completes when that source has
// been fully polled for this cycle.
type Adapter interface {
	// Tag is the short identifying name used for this source in fan-out
	// outcomes (e.g. "ytn", "mbc").
	Tag() string
	Fetch(ctx context.Context) ([]Candidate, error)
}
