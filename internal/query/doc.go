// Package query is a small predicate IR over the certificate log and its
// compiler to parameterized SQLite.
//
// Queries are conjunctions of column equalities. Two rules hold for every
// compiled statement:
//
//   - Values are always bound as ? parameters, never interpolated. Table
//     and column names are interpolated, so they must be plain identifiers.
//   - Every statement carries an ORDER BY ending in the id column with
//     COLLATE BINARY, so row order never depends on SQLite's plan.
//
// Example:
//
//	sql, args, err := query.Compile(query.Select{
//		From:    "checks",
//		Filter:  query.Where(map[string]any{"run_id": id, "rule": "farkas"}),
//		OrderBy: []string{"seq"},
//	})
//	// SELECT * FROM checks WHERE rule = ? AND run_id = ? ORDER BY seq ASC, id COLLATE BINARY ASC
//	// args: ["farkas", id]
package query
