package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun inserts a run so checks can reference it.
func createTestRun(t *testing.T, s *Store, runID string) {
	t.Helper()
	if err := s.BeginRun(context.Background(), runID, "test.cue"); err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}
}

// createTestCheck creates an accepted check with minimal required fields.
func createTestCheck(runID, step string, seq int64) CheckRecord {
	return CheckRecord{
		RunID:         runID,
		Step:          step,
		Seq:           seq,
		Rule:          "farkas",
		Coefficients:  []string{"1", "1"},
		LCD:           "1",
		Inequality:    "(<= 0 -1)",
		Contradiction: true,
	}
}
