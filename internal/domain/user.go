package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a climber with an account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// GradingPreference selects the display notation: true shows French grades,
	// false shows V-scale / YDS. Stored grades are canonical either way.
	GradingPreference bool `bson:"gradingPreference" json:"gradingPreference"`
	// MeasurementSystem: true for metric, false for imperial.
	MeasurementSystem bool `bson:"measurementSystem" json:"measurementSystem"`

	FullName     *string  `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Age          *int     `bson:"age,omitempty" json:"age,omitempty"`
	Height       *float64 `bson:"height,omitempty" json:"height,omitempty"`
	Weight       *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	ApeIndex     *float64 `bson:"apeIndex,omitempty" json:"apeIndex,omitempty"`
	ProfileImage string   `bson:"profileImage,omitempty" json:"-"` // S3 object key
}

// ProfileUpdate carries a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	GradingPreference *bool
	MeasurementSystem *bool
	FullName          *string
	Age               *int
	Height            *float64
	Weight            *float64
	ApeIndex          *float64
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.GradingPreference == nil && u.MeasurementSystem == nil && u.FullName == nil &&
		u.Age == nil && u.Height == nil && u.Weight == nil && u.ApeIndex == nil
}
