package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout represents a single workout session owned by exactly one user.
// TotalWeight and TotalSets are aggregate snapshots written by the client;
// they are pointers because a workout may be logged without them.
// Workouts are never hard-deleted, only flagged via IsDeleted.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Date        time.Time          `bson:"date" json:"date"`
	TotalWeight *float64           `bson:"totalWeight,omitempty" json:"totalWeight,omitempty"`
	TotalSets   *int               `bson:"totalSets,omitempty" json:"totalSets,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	IsDeleted   bool               `bson:"isDeleted" json:"isDeleted"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
