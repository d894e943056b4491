package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"climblog/climbing-app/internal/domain"
)

func climb(t domain.ClimbType, g string, attempts int, send bool) domain.Climb {
	return domain.Climb{Type: t, Style: domain.ClimbStyleVertical, Grade: g, Attempts: attempts, Send: send}
}

func strPtr(s string) *string { return &s }

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	if diff := cmp.Diff(domain.SessionStats{}, got); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}
	if got.HighestBoulderGrade != nil || got.HighestRouteGrade != nil {
		t.Fatalf("expected nil grades for empty input")
	}
}

func TestAggregateMixedSession(t *testing.T) {
	climbs := []domain.Climb{
		climb(domain.ClimbTypeBoulder, "V2", 1, true),
		climb(domain.ClimbTypeBoulder, "V5", 3, true),
		climb(domain.ClimbTypeLead, "5.10a", 1, false),
	}
	want := domain.SessionStats{
		HighestBoulderGrade: strPtr("V5"),
		TotalClimbs:         3,
		TotalAttempts:       5,
		CompletedBoulders:   2,
		TotalSends:          2,
		TotalFlashes:        1,
	}
	if diff := cmp.Diff(want, Aggregate(climbs)); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}
}

func TestUnsentClimbsDoNotRaiseHighestGrade(t *testing.T) {
	climbs := []domain.Climb{
		climb(domain.ClimbTypeBoulder, "V5", 2, true),
		climb(domain.ClimbTypeBoulder, "V12", 9, false),
	}
	got := Aggregate(climbs)
	if got.HighestBoulderGrade == nil || *got.HighestBoulderGrade != "V5" {
		t.Fatalf("expected V5, got %v", got.HighestBoulderGrade)
	}
}

func TestFlashRequiresSingleAttempt(t *testing.T) {
	flash := Aggregate([]domain.Climb{climb(domain.ClimbTypeTopRope, "5.9", 1, true)})
	if flash.TotalFlashes != 1 {
		t.Fatalf("expected a flash, got %d", flash.TotalFlashes)
	}
	second := Aggregate([]domain.Climb{climb(domain.ClimbTypeTopRope, "5.9", 2, true)})
	if second.TotalFlashes != 0 {
		t.Fatalf("expected no flash, got %d", second.TotalFlashes)
	}
}

func TestHighestGradeUsesTableOrderNotLexical(t *testing.T) {
	got := Aggregate([]domain.Climb{
		climb(domain.ClimbTypeBoulder, "V10", 4, true),
		climb(domain.ClimbTypeBoulder, "V9", 1, true),
	})
	if *got.HighestBoulderGrade != "V10" {
		t.Fatalf("expected V10, got %s", *got.HighestBoulderGrade)
	}

	got = Aggregate([]domain.Climb{
		climb(domain.ClimbTypeLead, "5.9", 1, true),
		climb(domain.ClimbTypeLead, "5.10a", 2, true),
	})
	if *got.HighestRouteGrade != "5.10a" {
		t.Fatalf("expected 5.10a, got %s", *got.HighestRouteGrade)
	}
}

func TestRouteDisciplinesShareHighestGrade(t *testing.T) {
	got := Aggregate([]domain.Climb{
		climb(domain.ClimbTypeTopRope, "5.11c", 2, true),
		climb(domain.ClimbTypeLead, "5.10b", 1, true),
	})
	if got.CompletedRoutes != 2 || got.TotalSends != 2 {
		t.Fatalf("expected two route sends, got %+v", got)
	}
	if *got.HighestRouteGrade != "5.11c" {
		t.Fatalf("expected 5.11c, got %s", *got.HighestRouteGrade)
	}
	if got.HighestBoulderGrade != nil {
		t.Fatalf("expected no boulder grade")
	}
}

func TestUnmappedGradeRanksBelowTableGrades(t *testing.T) {
	got := Aggregate([]domain.Climb{
		climb(domain.ClimbTypeBoulder, "VB", 1, true),
	})
	if got.HighestBoulderGrade == nil || *got.HighestBoulderGrade != "VB" {
		t.Fatalf("expected unmapped grade to be reported alone, got %v", got.HighestBoulderGrade)
	}

	got = Aggregate([]domain.Climb{
		climb(domain.ClimbTypeBoulder, "VB", 1, true),
		climb(domain.ClimbTypeBoulder, "V0", 1, true),
	})
	if *got.HighestBoulderGrade != "V0" {
		t.Fatalf("expected V0 to outrank unmapped grade, got %s", *got.HighestBoulderGrade)
	}
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	a := []domain.Climb{
		climb(domain.ClimbTypeBoulder, "V3", 1, true),
		climb(domain.ClimbTypeLead, "5.12a", 5, true),
		climb(domain.ClimbTypeBoulder, "V7", 2, false),
	}
	b := []domain.Climb{a[2], a[0], a[1]}
	if diff := cmp.Diff(Aggregate(a), Aggregate(b)); diff != "" {
		t.Fatalf("order changed the result:\n%s", diff)
	}
}

func TestUnmappedGradeTiesIgnoreOrder(t *testing.T) {
	a := []domain.Climb{
		climb(domain.ClimbTypeBoulder, "V?", 1, true),
		climb(domain.ClimbTypeBoulder, "VB", 1, true),
		climb(domain.ClimbTypeLead, "sport", 1, true),
		climb(domain.ClimbTypeTopRope, "gym", 1, true),
	}
	b := []domain.Climb{a[3], a[1], a[2], a[0]}

	for _, climbs := range [][]domain.Climb{a, b} {
		got := Aggregate(climbs)
		if *got.HighestBoulderGrade != "VB" || *got.HighestRouteGrade != "sport" {
			t.Fatalf("expected VB and sport, got %s and %s", *got.HighestBoulderGrade, *got.HighestRouteGrade)
		}
	}
	if diff := cmp.Diff(Hardest(a), Hardest(b)); diff != "" {
		t.Fatalf("order changed the hardest grades:\n%s", diff)
	}
}

func TestEqualGradeOnBothRouteTypesIgnoresOrder(t *testing.T) {
	a := []domain.Climb{
		climb(domain.ClimbTypeLead, "5.11a", 1, true),
		climb(domain.ClimbTypeTopRope, "5.11a", 1, true),
	}
	b := []domain.Climb{a[1], a[0]}
	if diff := cmp.Diff(Hardest(a), Hardest(b)); diff != "" {
		t.Fatalf("order changed the hardest route:\n%s", diff)
	}
}

func TestHardest(t *testing.T) {
	got := Hardest([]domain.Climb{
		climb(domain.ClimbTypeBoulder, "V4", 1, true),
		climb(domain.ClimbTypeBoulder, "V8", 3, false),
		climb(domain.ClimbTypeTopRope, "5.10d", 1, true),
		climb(domain.ClimbTypeLead, "5.11a", 2, true),
	})
	want := domain.HardestGrades{
		Boulder: &domain.GradeRecord{Grade: "V4", Type: domain.ClimbTypeBoulder},
		Route:   &domain.GradeRecord{Grade: "5.11a", Type: domain.ClimbTypeLead},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected hardest grades (-want +got):\n%s", diff)
	}

	if empty := Hardest(nil); empty.Boulder != nil || empty.Route != nil {
		t.Fatalf("expected no records, got %+v", empty)
	}
}

func TestBreakdown(t *testing.T) {
	climbs := []domain.Climb{
		{Type: domain.ClimbTypeLead, Style: domain.ClimbStyleOverhang},
		{Type: domain.ClimbTypeBoulder, Style: domain.ClimbStyleCave},
		{Type: domain.ClimbTypeBoulder, Style: domain.ClimbStyleSlab},
		{Type: domain.ClimbTypeBoulder, Style: domain.ClimbStyleCave},
	}
	want := []domain.TypeStyleCount{
		{Type: domain.ClimbTypeBoulder, Style: domain.ClimbStyleSlab, Count: 1},
		{Type: domain.ClimbTypeBoulder, Style: domain.ClimbStyleCave, Count: 2},
		{Type: domain.ClimbTypeLead, Style: domain.ClimbStyleOverhang, Count: 1},
	}
	if diff := cmp.Diff(want, Breakdown(climbs)); diff != "" {
		t.Fatalf("unexpected breakdown (-want +got):\n%s", diff)
	}
	if got := Breakdown(nil); len(got) != 0 {
		t.Fatalf("expected empty breakdown, got %v", got)
	}
}
