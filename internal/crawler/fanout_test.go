package crawler

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeAdapter struct {
	tag        string
	candidates []Candidate
	err        error
	panicWith  any
}

func (f *fakeAdapter) Tag() string { return f.tag }

func (f *fakeAdapter) Fetch(ctx context.Context) ([]Candidate, error) {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func TestFanOutIsolatesOneFailureFromOthers(t *testing.T) {
	adapters := map[string]Adapter{
		"good": &fakeAdapter{tag: "good", candidates: []Candidate{{Platform: "YTN", URL: "https://ytn.co.kr/1"}}},
		"bad":  &fakeAdapter{tag: "bad", err: errors.New("fetch timeout")},
	}

	outcomes := FanOut(context.Background(), adapters, zap.NewNop())
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	var sawGoodCandidates, sawBadErr bool
	for _, o := range outcomes {
		switch o.Source {
		case "good":
			if len(o.Candidates) != 1 || o.Err != nil {
				t.Fatalf("good source outcome corrupted: %+v", o)
			}
			sawGoodCandidates = true
		case "bad":
			if o.Err == nil {
				t.Fatalf("bad source should have carried its error, got %+v", o)
			}
			sawBadErr = true
		}
	}
	if !sawGoodCandidates || !sawBadErr {
		t.Fatalf("missing expected outcomes: %+v", outcomes)
	}
}

func TestFanOutRecoversFromAdapterPanic(t *testing.T) {
	adapters := map[string]Adapter{
		"panics": &fakeAdapter{tag: "panics", panicWith: "boom"},
		"fine":   &fakeAdapter{tag: "fine", candidates: []Candidate{{Platform: "MBC", URL: "https://mbc.co.kr/1"}}},
	}

	outcomes := FanOut(context.Background(), adapters, zap.NewNop())

	var sawPanicErr, sawFineCandidates bool
	for _, o := range outcomes {
		switch o.Source {
		case "panics":
			if o.Err == nil {
				t.Fatal("panicking adapter should produce a captured error outcome, not crash the test")
			}
			sawPanicErr = true
		case "fine":
			if len(o.Candidates) != 1 {
				t.Fatalf("sibling adapter should be unaffected by the panic, got %+v", o)
			}
			sawFineCandidates = true
		}
	}
	if !sawPanicErr || !sawFineCandidates {
		t.Fatalf("missing expected outcomes: %+v", outcomes)
	}
}
