package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminMessage is the admin-dashboard inbox row written by the in-app
// channel. The admin UI reads these directly.
type AdminMessage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NotificationID string             `bson:"notification_id" json:"notification_id"`
	Title          string             `bson:"title" json:"title"`
	Message        string             `bson:"message" json:"message"`
	Priority       Priority           `bson:"priority" json:"priority"`
	Read           bool               `bson:"read" json:"read"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserMessage is the per-user fallback message the in-app channel writes when
// the admin inbox is unavailable and the notification carries a user id.
type UserMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
