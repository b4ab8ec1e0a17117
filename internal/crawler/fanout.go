package crawler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Outcome is the per-source result of one fan-out pass: either a list of
// candidates or a captured error, never both.
type Outcome struct {
	Source     string
	Candidates []Candidate
	Err        error
}

// FanOut runs every adapter concurrently and waits for all of them to
// finish. One adapter's error is captured and attached to its own Outcome;
// it does not cancel or affect any sibling adapter. This deliberately
// avoids errgroup's cancel-on-first-error semantics — a single flaky
// source must never starve the rest (spec.md §4.2).
//
// Explicit cancellation of ctx does cancel every adapter, since ctx is
// shared; a failure originating inside one adapter does not.
func FanOut(ctx context.Context, adapters map[string]Adapter, log *zap.Logger) []Outcome {
	outcomes := make([]Outcome, len(adapters))

	var wg sync.WaitGroup
	i := 0
	for name, adapter := range adapters {
		idx := i
		i++
		wg.Add(1)
		go func(name string, adapter Adapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[idx] = Outcome{Source: name, Err: fmt.Errorf("adapter panicked: %v", r)}
				}
			}()

			candidates, err := adapter.Fetch(ctx)
			if err != nil {
				log.Error("source adapter failed", zap.String("source", name), zap.Error(err))
				outcomes[idx] = Outcome{Source: name, Err: err}
				return
			}
			outcomes[idx] = Outcome{Source: name, Candidates: candidates}
		}(name, adapter)
	}
	wg.Wait()

	return outcomes
}
