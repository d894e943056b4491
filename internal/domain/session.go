package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinIntensity = 0
	MaxIntensity = 10
)

// Session groups the climbs from one outing. A user has at most one open
// (not completed) session; once Completed is set the session and its climbs
// are read-only.
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	SessionName  string             `bson:"sessionName,omitempty" json:"sessionName,omitempty"`
	Intensity    int                `bson:"intensity" json:"intensity"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Completed    bool               `bson:"completed" json:"completed"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	SessionStats SessionStats       `bson:"sessionStats" json:"sessionStats"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Write guard. Every finished climb write bumps Revision; PendingWrites
	// counts climb writes in flight. Completion requires both to be settled.
	Revision      int64      `bson:"revision" json:"-"`
	PendingWrites int        `bson:"pendingWrites" json:"-"`
	LastWriteAt   *time.Time `bson:"lastWriteAt,omitempty" json:"-"`
}

// SessionStats is derived from a session's climbs and recomputed whenever
// they change. Grade fields are nil when no sent climb of that discipline exists.
type SessionStats struct {
	HighestBoulderGrade *string `bson:"highestBoulderGrade" json:"highestBoulderGrade"`
	HighestRouteGrade   *string `bson:"highestRouteGrade" json:"highestRouteGrade"`
	TotalClimbs         int     `bson:"totalClimbs" json:"totalClimbs"`
	TotalAttempts       int     `bson:"totalAttempts" json:"totalAttempts"`
	CompletedBoulders   int     `bson:"completedBoulders" json:"completedBoulders"`
	CompletedRoutes     int     `bson:"completedRoutes" json:"completedRoutes"`
	TotalSends          int     `bson:"totalSends" json:"totalSends"`
	TotalFlashes        int     `bson:"totalFlashes" json:"totalFlashes"`
}

// GradeRecord is a hardest-grade entry: the grade and the type of the climb it was sent on.
type GradeRecord struct {
	Grade        string    `json:"grade"`
	Type         ClimbType `json:"type"`
	DisplayGrade string    `json:"displayGrade,omitempty"` // Filled in per user when rendered
}

// HardestGrades holds a user's all-time hardest sends per discipline.
type HardestGrades struct {
	Boulder *GradeRecord `json:"boulder"`
	Route   *GradeRecord `json:"route"`
}

// TypeStyleCount is the number of climbs logged with a given type and style.
type TypeStyleCount struct {
	Type  ClimbType  `json:"type"`
	Style ClimbStyle `json:"style"`
	Count int        `json:"count"`
}
