package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/farkas/internal/query"
)

// checkColumns is the column order scanCheck expects.
var checkColumns = []string{
	"id", "run_id", "step", "seq", "rule", "coefficients", "lcd",
	"inequality", "contradiction", "error_code", "error_message",
}

// ReadChecks returns all checks for a run.
// Results are ordered deterministically: ORDER BY seq ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the run has no checks.
func (s *Store) ReadChecks(ctx context.Context, runID string) ([]CheckRecord, error) {
	return s.FindChecks(ctx, runID, nil)
}

// FindChecks returns the checks of a run that also match filter, in the
// same order as ReadChecks. A nil filter matches every check.
func (s *Store) FindChecks(ctx context.Context, runID string, filter query.Predicate) ([]CheckRecord, error) {
	stmt, args, err := query.Compile(query.Select{
		From:    "checks",
		Columns: checkColumns,
		Filter: query.And{Predicates: []query.Predicate{
			query.Equals{Field: "run_id", Value: runID},
			filter,
		}},
		OrderBy: []string{"seq"},
	})
	if err != nil {
		return nil, fmt.Errorf("compile check query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	checks := []CheckRecord{}
	for rows.Next() {
		rec, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}

	return checks, nil
}

// ReadCheck retrieves a single check by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadCheck(ctx context.Context, id string) (CheckRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_id, step, seq, rule, coefficients, lcd, inequality, contradiction, error_code, error_message
		FROM checks
		WHERE id = ?
	`, id)

	return scanCheck(row)
}

// ReadRuns returns all runs in insertion order with per-run check counts.
func (s *Store) ReadRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.Query(ctx, `
		SELECT r.id, r.source, r.engine_version, r.ir_version,
		       COUNT(c.id),
		       COALESCE(SUM(CASE WHEN c.error_code != '' OR c.contradiction = 0 THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN checks c ON c.run_id = r.id
		GROUP BY r.rowid
		ORDER BY r.rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Source, &r.EngineVersion, &r.IRVersion, &r.Checks, &r.Rejected); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// CountChecks returns the number of checks recorded for a run.
func (s *Store) CountChecks(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checks WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count checks: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

var (
	_ rowScanner = (*sql.Row)(nil)
	_ rowScanner = (*sql.Rows)(nil)
)

func scanCheck(row rowScanner) (CheckRecord, error) {
	var rec CheckRecord
	var coeffsJSON string
	var contradiction int

	if err := row.Scan(
		&rec.ID, &rec.RunID, &rec.Step, &rec.Seq, &rec.Rule, &coeffsJSON,
		&rec.LCD, &rec.Inequality, &contradiction, &rec.ErrorCode, &rec.ErrorMessage,
	); err != nil {
		return CheckRecord{}, err
	}

	coeffs, err := unmarshalCoefficients(coeffsJSON)
	if err != nil {
		return CheckRecord{}, err
	}
	rec.Coefficients = coeffs
	rec.Contradiction = contradiction != 0

	return rec, nil
}
