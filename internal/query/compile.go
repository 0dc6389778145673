package query

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// identifier matches the table and column names Compile will interpolate.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// tieBreaker ends every ORDER BY.
const tieBreaker = "id COLLATE BINARY ASC"

// ValidIdentifier reports whether name may be used as a table or column.
func ValidIdentifier(name string) bool {
	return identifier.MatchString(name)
}

// Compile converts q to a parameterized SQLite statement.
func Compile(q Select) (string, []any, error) {
	if !ValidIdentifier(q.From) {
		return "", nil, fmt.Errorf("invalid table name %q", q.From)
	}

	cols := "*"
	if len(q.Columns) > 0 {
		for _, c := range q.Columns {
			if !ValidIdentifier(c) {
				return "", nil, fmt.Errorf("invalid column name %q", c)
			}
		}
		cols = strings.Join(q.Columns, ", ")
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "SELECT %s FROM %s", cols, q.From)

	var args []any
	if q.Filter != nil {
		where, whereArgs, err := compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		if where != "" {
			buf.WriteString(" WHERE ")
			buf.WriteString(where)
			args = whereArgs
		}
	}

	order := make([]string, 0, len(q.OrderBy)+1)
	for _, c := range q.OrderBy {
		if !ValidIdentifier(c) {
			return "", nil, fmt.Errorf("invalid order column %q", c)
		}
		order = append(order, c+" ASC")
	}
	order = append(order, tieBreaker)
	buf.WriteString(" ORDER BY ")
	buf.WriteString(strings.Join(order, ", "))

	return buf.String(), args, nil
}

// compilePredicate returns "" for a predicate that matches everything.
func compilePredicate(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case Equals:
		return compileEquals(pred)
	case *Equals:
		return compileEquals(*pred)
	case And:
		return compileAnd(pred)
	case *And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileEquals(eq Equals) (string, []any, error) {
	if !ValidIdentifier(eq.Field) {
		return "", nil, fmt.Errorf("invalid column name %q: must match %s", eq.Field, identifier)
	}
	if eq.Value == nil {
		return eq.Field + " IS NULL", nil, nil
	}
	param, err := Param(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("column %s: %w", eq.Field, err)
	}
	return eq.Field + " = ?", []any{param}, nil
}

func compileAnd(and And) (string, []any, error) {
	var (
		parts []string
		args  []any
	)
	for _, p := range and.Predicates {
		if p == nil {
			continue
		}
		sql, pArgs, err := compilePredicate(p)
		if err != nil {
			return "", nil, err
		}
		if sql == "" {
			continue
		}
		parts = append(parts, sql)
		args = append(args, pArgs...)
	}
	return strings.Join(parts, " AND "), args, nil
}

// Param converts a Go or YAML-decoded value to a SQLite argument. Booleans
// become 0 or 1, matching how the log stores them.
func Param(v any) (any, error) {
	switch val := v.(type) {
	case string, int, int64:
		return val, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return nil, fmt.Errorf("%T cannot be used as a parameter", v)
	}
	return fmt.Sprintf("%v", v), nil
}
