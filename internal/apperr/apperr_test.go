package apperr

import (
	"errors"
	"strings"
	"testing"
)

func TestKindClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"invalid input", InvalidInput("op", errors.New("bad")), IsInvalidInput},
		{"duplicate", Duplicate("op", errors.New("dup")), IsDuplicate},
		{"transient", Transient("op", errors.New("timeout")), IsTransient},
		{"permanent", Permanent("op", errors.New("4xx")), IsPermanent},
		{"storage error", StorageError("op", errors.New("conn refused")), IsStorageError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.is(tc.err) {
				t.Fatalf("expected %v to classify as %s", tc.err, tc.name)
			}
		})
	}
}

func TestClassificationIsExclusive(t *testing.T) {
	err := Transient("op", errors.New("timeout"))
	if IsPermanent(err) || IsDuplicate(err) || IsStorageError(err) || IsInvalidInput(err) {
		t.Fatalf("transient error misclassified: %v", err)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := StorageError("QueueStore.Claim", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find wrapped cause")
	}
}

func TestErrorMessageIncludesOpAndKind(t *testing.T) {
	err := Duplicate("ArticleStore.Insert", errors.New("unique_id exists"))
	msg := err.Error()
	if !strings.Contains(msg, "ArticleStore.Insert") || !strings.Contains(msg, string(KindDuplicate)) {
		t.Fatalf("error message missing op/kind context: %s", msg)
	}
}

func TestNilWrappedError(t *testing.T) {
	err := New(KindTransient, "op", nil)
	if err.Error() == "" {
		t.Fatal("expected non-empty message even with nil wrapped error")
	}
}
