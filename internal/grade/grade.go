// Package grade converts climbing grades between the canonical storage
// notation (V-scale for boulders, YDS for routes) and the French notation
// a user may prefer to see.
//
// The tables are ordered easiest to hardest and the position of a grade is
// its difficulty rank. Lookups that find no match return the input
// unchanged so an unrecognised grade never blocks logging a climb.
package grade

import "climblog/climbing-app/internal/domain"

// Pair maps a canonical grade to its French equivalent.
type Pair struct {
	Canonical string
	French    string
}

// Table is an immutable, ordered, one-to-one grade mapping.
type Table struct {
	name  string
	pairs []Pair
}

// Boulder maps V-scale grades to French bouldering grades.
var Boulder = &Table{name: "boulder", pairs: []Pair{
	{"V0", "4"},
	{"V1", "5"},
	{"V2", "5a"},
	{"V3", "5b"},
	{"V4", "5c"},
	{"V5", "6a"},
	{"V6", "6b"},
	{"V7", "6c"},
	{"V8", "7a"},
	{"V9", "7a+"},
	{"V10", "7b"},
	{"V11", "7c"},
	{"V12", "8a"},
	{"V13", "8b"},
	{"V14", "8c"},
	{"V15", "9a"},
	{"V16", "9b"},
	{"V17", "9c"},
}}

// Route maps YDS grades to French sport grades. Top Rope and Lead share it.
var Route = &Table{name: "route", pairs: []Pair{
	{"5.5", "4"},
	{"5.6", "5a"},
	{"5.7", "5b"},
	{"5.8", "5c"},
	{"5.9", "6a"},
	{"5.10a", "6a+"},
	{"5.10b", "6b"},
	{"5.10c", "6b+"},
	{"5.10d", "6c"},
	{"5.11a", "6c+"},
	{"5.11b", "7a"},
	{"5.11c", "7a+"},
	{"5.11d", "7b"},
	{"5.12a", "7b+"},
	{"5.12b", "7c"},
	{"5.12c", "7c+"},
	{"5.12d", "8a"},
	{"5.13a", "8a+"},
	{"5.13b", "8b"},
	{"5.13c", "8b+"},
	{"5.13d", "8c"},
	{"5.14a", "8c+"},
	{"5.14b", "9a"},
	{"5.14c", "9a+"},
	{"5.14d", "9b"},
	{"5.15a", "9b+"},
	{"5.15b", "9c"},
}}

// For returns the table a climb type is graded on.
func For(t domain.ClimbType) *Table {
	if t == domain.ClimbTypeBoulder {
		return Boulder
	}
	return Route
}

func (t *Table) Name() string { return t.name }

func (t *Table) Len() int { return len(t.pairs) }

// Pairs returns a copy of the table in difficulty order.
func (t *Table) Pairs() []Pair {
	out := make([]Pair, len(t.pairs))
	copy(out, t.pairs)
	return out
}

// French returns the French equivalent of a canonical grade.
func (t *Table) French(canonical string) (string, bool) {
	for _, p := range t.pairs {
		if p.Canonical == canonical {
			return p.French, true
		}
	}
	return "", false
}

// Canonical returns the canonical grade for a French grade.
func (t *Table) Canonical(french string) (string, bool) {
	for _, p := range t.pairs {
		if p.French == french {
			return p.Canonical, true
		}
	}
	return "", false
}

// Rank returns the difficulty position of a canonical grade, 0 being the easiest.
func (t *Table) Rank(canonical string) (int, bool) {
	for i, p := range t.pairs {
		if p.Canonical == canonical {
			return i, true
		}
	}
	return -1, false
}

// Grades lists every grade in difficulty order, in French or canonical notation.
func (t *Table) Grades(french bool) []string {
	out := make([]string, len(t.pairs))
	for i, p := range t.pairs {
		if french {
			out[i] = p.French
		} else {
			out[i] = p.Canonical
		}
	}
	return out
}

// ToCanonical converts a grade picked in the user's notation to the stored one.
func ToCanonical(display string, t domain.ClimbType, frenchDisplay bool) string {
	if !frenchDisplay {
		return display
	}
	if canonical, ok := For(t).Canonical(display); ok {
		return canonical
	}
	return display
}

// ToDisplay converts a stored grade to the user's notation.
func ToDisplay(canonical string, t domain.ClimbType, frenchDisplay bool) string {
	if !frenchDisplay {
		return canonical
	}
	if french, ok := For(t).French(canonical); ok {
		return french
	}
	return canonical
}
