package store

import (
	"context"
	"fmt"

	"github.com/roach88/farkas/internal/ir"
)

// RunRecord describes one checker run.
type RunRecord struct {
	ID            string
	Source        string
	EngineVersion string
	IRVersion     string

	// Filled by ReadRuns.
	Checks   int
	Rejected int
}

// CheckRecord is the persisted outcome of one certificate step.
//
// Exactly one of the two groups is meaningful: either the check ran
// (Coefficients, LCD, Inequality, Contradiction) or it failed with
// ErrorCode and ErrorMessage.
type CheckRecord struct {
	ID    string
	RunID string
	Step  string
	Seq   int64
	Rule  string

	Coefficients  []string
	LCD           string
	Inequality    string
	Contradiction bool

	ErrorCode    string
	ErrorMessage string
}

// Accepted reports whether the step was certified: no error and the
// combined inequality is constant-false.
func (c CheckRecord) Accepted() bool {
	return c.ErrorCode == "" && c.Contradiction
}

// BeginRun records a new run. The engine and IR versions are stamped from
// the ir package. Writing the same run ID twice is a no-op.
func (s *Store) BeginRun(ctx context.Context, runID, source string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, engine_version, ir_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, runID, source, ir.EngineVersion, ir.IRVersion)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteCheck inserts a check record. An empty ID is filled with
// ir.CheckID(RunID, Step, Seq).
//
// Uses ON CONFLICT DO NOTHING for idempotency: a duplicate ID or a second
// record for the same (run, step) is silently ignored.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteCheck(ctx context.Context, rec CheckRecord) error {
	if rec.ID == "" {
		id, err := ir.CheckID(rec.RunID, rec.Step, rec.Seq)
		if err != nil {
			return fmt.Errorf("write check: %w", err)
		}
		rec.ID = id
	}

	coeffsJSON, err := marshalCoefficients(rec.Coefficients)
	if err != nil {
		return fmt.Errorf("write check: %w", err)
	}

	contradiction := 0
	if rec.Contradiction {
		contradiction = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checks
		(id, run_id, step, seq, rule, coefficients, lcd, inequality, contradiction, error_code, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		rec.ID,
		rec.RunID,
		rec.Step,
		rec.Seq,
		rec.Rule,
		coeffsJSON,
		rec.LCD,
		rec.Inequality,
		contradiction,
		rec.ErrorCode,
		rec.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("write check: %w", err)
	}

	return nil
}
