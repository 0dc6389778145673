package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/query"
	"github.com/roach88/farkas/internal/store"
)

// TestCompile_RunsOnSQLite executes compiled statements against a real log
// so the emitted SQL is accepted by SQLite, not just shaped as expected.
func TestCompile_RunsOnSQLite(t *testing.T) {
	s, err := store.Open(store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, "r", "certs.cue"))
	for _, rec := range []store.CheckRecord{
		{RunID: "r", Step: "b", Seq: 2, Rule: "farkas", Contradiction: true},
		{RunID: "r", Step: "a", Seq: 1, Rule: "farkas"},
		{RunID: "r", Step: "c", Seq: 3, Rule: "assign-bounds", Contradiction: true},
	} {
		require.NoError(t, s.WriteCheck(ctx, rec))
	}

	tests := []struct {
		name string
		q    query.Select
		want []string
	}{
		{
			name: "ordered by seq",
			q:    query.Select{From: "checks", Columns: []string{"step"}, OrderBy: []string{"seq"}},
			want: []string{"a", "b", "c"},
		},
		{
			name: "filtered",
			q: query.Select{
				From:    "checks",
				Columns: []string{"step"},
				Filter:  query.Where(map[string]any{"rule": "farkas", "contradiction": true}),
				OrderBy: []string{"seq"},
			},
			want: []string{"b"},
		},
		{
			name: "id tiebreaker only",
			q:    query.Select{From: "runs", Columns: []string{"id"}},
			want: []string{"r"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, args, err := query.Compile(tt.q)
			require.NoError(t, err)

			rows, err := s.Query(ctx, stmt, args...)
			require.NoError(t, err, stmt)
			defer rows.Close()

			got := []string{}
			for rows.Next() {
				var v string
				require.NoError(t, rows.Scan(&v))
				got = append(got, v)
			}
			require.NoError(t, rows.Err())
			assert.Equal(t, tt.want, got)
		})
	}
}
