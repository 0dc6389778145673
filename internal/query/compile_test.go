package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_SimpleSelect(t *testing.T) {
	sql, params, err := Compile(Select{
		From:   "checks",
		Filter: Equals{Field: "rule", Value: "farkas"},
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM checks WHERE rule = ? ORDER BY id COLLATE BINARY ASC", sql)
	assert.NotContains(t, sql, "farkas")
	assert.Equal(t, []any{"farkas"}, params)
}

func TestCompile_GoldenSQL(t *testing.T) {
	tests := []struct {
		name   string
		query  Select
		sql    string
		params []any
	}{
		{
			name:  "no filter",
			query: Select{From: "runs"},
			sql:   "SELECT * FROM runs ORDER BY id COLLATE BINARY ASC",
		},
		{
			name: "columns and order",
			query: Select{
				From:    "checks",
				Columns: []string{"step", "seq"},
				Filter:  Where(map[string]any{"run_id": "r1", "rule": "farkas"}),
				OrderBy: []string{"seq"},
			},
			sql:    "SELECT step, seq FROM checks WHERE rule = ? AND run_id = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			params: []any{"farkas", "r1"},
		},
		{
			name: "nested and with nil entries",
			query: Select{
				From: "checks",
				Filter: And{Predicates: []Predicate{
					Equals{Field: "run_id", Value: "r1"},
					nil,
					&And{Predicates: []Predicate{&Equals{Field: "contradiction", Value: true}}},
				}},
			},
			sql:    "SELECT * FROM checks WHERE run_id = ? AND contradiction = ? ORDER BY id COLLATE BINARY ASC",
			params: []any{"r1", 1},
		},
		{
			name:   "empty and drops where",
			query:  Select{From: "checks", Filter: And{}},
			sql:    "SELECT * FROM checks ORDER BY id COLLATE BINARY ASC",
			params: nil,
		},
		{
			name:  "null",
			query: Select{From: "checks", Filter: Equals{Field: "lcd", Value: nil}},
			sql:   "SELECT * FROM checks WHERE lcd IS NULL ORDER BY id COLLATE BINARY ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := Compile(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompile_RejectsBadIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		query Select
	}{
		{"table", Select{From: "checks; DROP TABLE runs"}},
		{"column", Select{From: "checks", Columns: []string{"step, 1"}}},
		{"filter", Select{From: "checks", Filter: Equals{Field: "1=1 OR step", Value: "x"}}},
		{"order", Select{From: "checks", OrderBy: []string{"seq DESC"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Compile(tt.query)
			assert.Error(t, err)
		})
	}
}

func TestCompile_UnsupportedValue(t *testing.T) {
	_, _, err := Compile(Select{From: "checks", Filter: Equals{Field: "coefficients", Value: []string{"1"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coefficients")
}

func TestParam(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"a", "a"},
		{7, 7},
		{int64(7), int64(7)},
		{true, 1},
		{false, 0},
		{0.5, "0.5"},
	}
	for _, tt := range tests {
		got, err := Param(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Param(map[string]any{"a": 1})
	assert.Error(t, err)
}

func TestWhereAndDescribe(t *testing.T) {
	assert.Nil(t, Where(nil))
	assert.Equal(t, "(no conditions)", Describe(nil))
	assert.Equal(t, "(no conditions)", Describe(And{}))

	p := Where(map[string]any{"step": "bound", "seq": 1})
	assert.Equal(t, "seq=1 AND step=bound", Describe(p))
}
