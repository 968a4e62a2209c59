package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single exercise entry inside a workout. CatalogID references
// an exercise in the external catalog by its string identifier; it is not a
// foreign key into any local collection. An exercise carries no user
// reference of its own, ownership is always checked through the parent
// workout.
type Exercise struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	CatalogID string             `bson:"catalogId" json:"catalogId"`
	Weight    *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Sets      *int               `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps      *int               `bson:"reps,omitempty" json:"reps,omitempty"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Order     int                `bson:"order" json:"order"`
	IsDeleted bool               `bson:"isDeleted" json:"isDeleted"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
