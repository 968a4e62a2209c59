package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a workout-app user authenticated through Telegram.
// TelegramID is nullable because users created through the management
// surface may not have linked a Telegram account yet; it is unique when set.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TelegramID *int64             `bson:"telegramId,omitempty" json:"telegramId,omitempty"`
	Username   string             `bson:"username" json:"username"`
	FirstName  string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName   string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
