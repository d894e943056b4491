package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadKind says what an uploaded object is attached to.
type UploadKind string

const (
	UploadKindClimb   UploadKind = "climb"
	UploadKindProfile UploadKind = "profile"
)

// Upload stores metadata about an image uploaded by a user.
// The actual file resides in S3.
type Upload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Kind        UploadKind         `bson:"kind" json:"kind"`
	ClimbID     string             `bson:"climbId,omitempty" json:"climbId,omitempty"` // Set for climb images
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
