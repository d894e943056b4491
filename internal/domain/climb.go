package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClimbType is the discipline a climb was logged under.
type ClimbType string

const (
	ClimbTypeBoulder ClimbType = "Boulder"
	ClimbTypeTopRope ClimbType = "Top Rope"
	ClimbTypeLead    ClimbType = "Lead"
)

// ClimbTypes lists every climb type in display order.
var ClimbTypes = []ClimbType{ClimbTypeBoulder, ClimbTypeTopRope, ClimbTypeLead}

func (t ClimbType) Valid() bool {
	switch t {
	case ClimbTypeBoulder, ClimbTypeTopRope, ClimbTypeLead:
		return true
	}
	return false
}

func (t ClimbType) IsBoulder() bool { return t == ClimbTypeBoulder }

// IsRoute reports whether the climb is graded on the route scale (Top Rope or Lead).
func (t ClimbType) IsRoute() bool { return t == ClimbTypeTopRope || t == ClimbTypeLead }

// ClimbStyle describes the wall angle of a climb.
type ClimbStyle string

const (
	ClimbStyleSlab     ClimbStyle = "Slab"
	ClimbStyleVertical ClimbStyle = "Vertical"
	ClimbStyleOverhang ClimbStyle = "Overhang"
	ClimbStyleCave     ClimbStyle = "Cave"
)

// ClimbStyles lists every style in display order.
var ClimbStyles = []ClimbStyle{ClimbStyleSlab, ClimbStyleVertical, ClimbStyleOverhang, ClimbStyleCave}

func (s ClimbStyle) Valid() bool {
	switch s {
	case ClimbStyleSlab, ClimbStyleVertical, ClimbStyleOverhang, ClimbStyleCave:
		return true
	}
	return false
}

// Climb is a single logged climb within a Session.
// Grade is always the canonical grade (V-scale for boulders, YDS for routes),
// whatever notation the user picked it in.
type Climb struct {
	ID         string             `bson:"_id" json:"id"`                  // UUID, client-supplied or generated on create
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`           // Denormalized owner for per-user queries
	SessionID  primitive.ObjectID `bson:"sessionId" json:"sessionId"`     // Set on create, never changed
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Type       ClimbType          `bson:"type" json:"type"`
	Style      ClimbStyle         `bson:"style" json:"style"`
	Grade      string             `bson:"grade" json:"grade"`
	Attempts   int                `bson:"attempts" json:"attempts"` // >= 1
	Send       bool               `bson:"send" json:"send"`
	ClimbImage string             `bson:"climbImage,omitempty" json:"-"` // S3 object key
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsFlash reports whether the climb was sent on the first attempt.
func (c *Climb) IsFlash() bool {
	return c.Send && c.Attempts == 1
}
