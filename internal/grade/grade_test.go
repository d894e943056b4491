package grade

import (
	"testing"

	"climblog/climbing-app/internal/domain"
)

var tables = []struct {
	table *Table
	typ   domain.ClimbType
}{
	{Boulder, domain.ClimbTypeBoulder},
	{Route, domain.ClimbTypeLead},
	{Route, domain.ClimbTypeTopRope},
}

func TestBoulderTableShape(t *testing.T) {
	if Boulder.Len() != 18 {
		t.Fatalf("expected 18 boulder grades, got %d", Boulder.Len())
	}
	pairs := Boulder.Pairs()
	if pairs[0] != (Pair{"V0", "4"}) {
		t.Fatalf("unexpected first boulder pair %+v", pairs[0])
	}
	if pairs[len(pairs)-1] != (Pair{"V17", "9c"}) {
		t.Fatalf("unexpected last boulder pair %+v", pairs[len(pairs)-1])
	}
}

func TestTablesAreBijective(t *testing.T) {
	for _, table := range []*Table{Boulder, Route} {
		canon := map[string]bool{}
		french := map[string]bool{}
		for _, p := range table.Pairs() {
			if canon[p.Canonical] || french[p.French] {
				t.Fatalf("%s table has a duplicate entry %+v", table.Name(), p)
			}
			canon[p.Canonical] = true
			french[p.French] = true
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range tables {
		for _, p := range tc.table.Pairs() {
			if got := ToDisplay(ToCanonical(p.French, tc.typ, true), tc.typ, true); got != p.French {
				t.Fatalf("%s: french round trip %q -> %q", tc.typ, p.French, got)
			}
			if got := ToCanonical(ToDisplay(p.Canonical, tc.typ, true), tc.typ, true); got != p.Canonical {
				t.Fatalf("%s: canonical round trip %q -> %q", tc.typ, p.Canonical, got)
			}
		}
	}
}

func TestIdentityWithoutFrenchDisplay(t *testing.T) {
	for _, tc := range tables {
		for _, g := range tc.table.Grades(false) {
			once := ToCanonical(g, tc.typ, false)
			if once != g || ToCanonical(once, tc.typ, false) != g {
				t.Fatalf("%s: expected identity for %q, got %q", tc.typ, g, once)
			}
			if ToDisplay(g, tc.typ, false) != g {
				t.Fatalf("%s: expected identity display for %q", tc.typ, g)
			}
		}
	}
}

func TestUnmappedGradePassesThrough(t *testing.T) {
	for _, tc := range tables {
		for _, french := range []bool{true, false} {
			if got := ToCanonical("not-a-grade", tc.typ, french); got != "not-a-grade" {
				t.Fatalf("ToCanonical(%s, french=%v) = %q", tc.typ, french, got)
			}
			if got := ToDisplay("not-a-grade", tc.typ, french); got != "not-a-grade" {
				t.Fatalf("ToDisplay(%s, french=%v) = %q", tc.typ, french, got)
			}
		}
	}
}

func TestFrenchConversionPicksDisciplineTable(t *testing.T) {
	if got := ToCanonical("6a", domain.ClimbTypeBoulder, true); got != "V5" {
		t.Fatalf("boulder 6a: got %q", got)
	}
	if got := ToCanonical("6a", domain.ClimbTypeLead, true); got != "5.9" {
		t.Fatalf("lead 6a: got %q", got)
	}
	if got := ToDisplay("5.10a", domain.ClimbTypeTopRope, true); got != "6a+" {
		t.Fatalf("top rope 5.10a: got %q", got)
	}
}

func TestRankFollowsTableOrder(t *testing.T) {
	for _, table := range []*Table{Boulder, Route} {
		grades := table.Grades(false)
		for i := 1; i < len(grades); i++ {
			a, _ := table.Rank(grades[i-1])
			b, _ := table.Rank(grades[i])
			if a >= b {
				t.Fatalf("%s: %q should rank below %q", table.Name(), grades[i-1], grades[i])
			}
		}
	}

	v9, _ := Boulder.Rank("V9")
	v10, _ := Boulder.Rank("V10")
	if v9 >= v10 {
		t.Fatalf("V9 must rank below V10")
	}
	if _, ok := Boulder.Rank("V18"); ok {
		t.Fatalf("V18 is not in the table")
	}
}

func TestPairsReturnsCopy(t *testing.T) {
	p := Boulder.Pairs()
	p[0].French = "changed"
	if f, _ := Boulder.French("V0"); f != "4" {
		t.Fatalf("table mutated through Pairs: %q", f)
	}
}
