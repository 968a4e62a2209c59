package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BugReport is a free-standing report filed from the web app. It has no
// relationship to any other entity.
type BugReport struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TelegramUsername string             `bson:"telegramUsername" json:"telegramUsername"`
	BrowserInfo      string             `bson:"browserInfo" json:"browserInfo"`
	Message          string             `bson:"message" json:"message"`
	Page             string             `bson:"page,omitempty" json:"page,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
