// Package publish implements the Publisher Worker (spec.md §4.5) and the
// concrete chat target behind spec.md §6's opaque send(message) interface.
package publish

import (
	"context"
	"time"
)

// Message is the opaque payload spec.md §6 defines for the chat target.
type Message struct {
	Title       string
	URL         string
	Content     string
	ImageURL    string
	Category    string
	Platform    string
	PublishedAt *time.Time
}

// ChatTarget is the minimal interface the Publisher Worker dispatches
// through. Send classifies a non-success as apperr.Transient or
// apperr.Permanent. The worker marks the item FAILED through the Queue
// Engine for either class and additionally writes Permanent failures to the
// error log; a Permanent failure is not excluded from Retry, which moves it
// back to PENDING like any other FAILED item while retry_count < max_retries.
type ChatTarget interface {
	Send(ctx context.Context, msg Message) error
}
