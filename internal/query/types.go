package query

import (
	"fmt"
	"sort"
	"strings"
)

// Predicate is a filter condition. The interface is sealed; Equals and And
// are the only implementations.
type Predicate interface {
	predicateNode()
	String() string
}

// Select reads rows from one log table.
type Select struct {
	From    string    // runs or checks
	Columns []string  // nil selects every column
	Filter  Predicate // nil matches every row
	OrderBy []string  // ascending sort columns ahead of the id tiebreaker
}

// Equals matches rows whose Field equals Value. A nil Value matches NULL.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

func (e Equals) String() string { return fmt.Sprintf("%s=%v", e.Field, e.Value) }

// And matches rows satisfying every predicate. Nil entries are skipped and
// an empty And matches everything.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

func (a And) String() string {
	parts := make([]string, 0, len(a.Predicates))
	for _, p := range a.Predicates {
		if p != nil {
			parts = append(parts, p.String())
		}
	}
	if len(parts) == 0 {
		return "(no conditions)"
	}
	return strings.Join(parts, " AND ")
}

// Where turns a column-to-value map into an And of Equals, sorted by
// column. An empty map yields nil.
func Where(m map[string]any) Predicate {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	preds := make([]Predicate, 0, len(keys))
	for _, k := range keys {
		preds = append(preds, Equals{Field: k, Value: m[k]})
	}
	return And{Predicates: preds}
}

// Describe renders p for error messages.
func Describe(p Predicate) string {
	if p == nil {
		return "(no conditions)"
	}
	return p.String()
}
