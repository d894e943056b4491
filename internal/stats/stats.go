// Package stats derives session and profile statistics from logged climbs.
package stats

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/grade"
)

// hardest tracks the highest ranked sent climb seen so far on one table.
// Grades missing from the table rank below every listed grade.
type hardest struct {
	table *grade.Table
	rank  int
	climb *domain.Climb
}

func (h *hardest) offer(c *domain.Climb) {
	rank, ok := h.table.Rank(c.Grade)
	if !ok {
		rank = -1
	}
	if h.climb == nil || rank > h.rank || (rank == h.rank && breaksTie(c, h.climb)) {
		h.rank = rank
		h.climb = c
	}
}

// breaksTie orders equally ranked climbs by grade and then type, so the pick
// does not depend on the order climbs are offered in.
func breaksTie(c, current *domain.Climb) bool {
	if c.Grade != current.Grade {
		return c.Grade > current.Grade
	}
	return c.Type > current.Type
}

func (h *hardest) grade() *string {
	if h.climb == nil {
		return nil
	}
	g := h.climb.Grade
	return &g
}

func (h *hardest) record() *domain.GradeRecord {
	if h.climb == nil {
		return nil
	}
	return &domain.GradeRecord{Grade: h.climb.Grade, Type: h.climb.Type}
}

// Aggregate computes the stats of one session's climbs.
// Top Rope and Lead are ranked together for the highest route grade.
func Aggregate(climbs []domain.Climb) domain.SessionStats {
	var s domain.SessionStats
	boulder := hardest{table: grade.Boulder}
	route := hardest{table: grade.Route}

	for i := range climbs {
		c := &climbs[i]
		s.TotalClimbs++
		s.TotalAttempts += c.Attempts
		if !c.Send {
			continue
		}
		switch {
		case c.Type.IsBoulder():
			s.CompletedBoulders++
			boulder.offer(c)
		case c.Type.IsRoute():
			s.CompletedRoutes++
			route.offer(c)
		}
		if c.IsFlash() {
			s.TotalFlashes++
		}
	}

	s.TotalSends = s.CompletedBoulders + s.CompletedRoutes
	s.HighestBoulderGrade = boulder.grade()
	s.HighestRouteGrade = route.grade()
	return s
}

// Hardest returns the hardest sent boulder and route across the given climbs.
func Hardest(climbs []domain.Climb) domain.HardestGrades {
	boulder := hardest{table: grade.Boulder}
	route := hardest{table: grade.Route}
	for i := range climbs {
		c := &climbs[i]
		if !c.Send {
			continue
		}
		if c.Type.IsBoulder() {
			boulder.offer(c)
		} else if c.Type.IsRoute() {
			route.offer(c)
		}
	}
	return domain.HardestGrades{Boulder: boulder.record(), Route: route.record()}
}

// Breakdown counts climbs per type and style. Only combinations that occur
// are returned, ordered by type and then style in declaration order.
func Breakdown(climbs []domain.Climb) []domain.TypeStyleCount {
	type key struct {
		t domain.ClimbType
		s domain.ClimbStyle
	}
	counts := make(map[key]int)
	for _, c := range climbs {
		counts[key{c.Type, c.Style}]++
	}

	out := make([]domain.TypeStyleCount, 0, len(counts))
	for _, t := range domain.ClimbTypes {
		for _, s := range domain.ClimbStyles {
			if n := counts[key{t, s}]; n > 0 {
				out = append(out, domain.TypeStyleCount{Type: t, Style: s, Count: n})
			}
		}
	}
	return out
}
