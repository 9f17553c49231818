package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeInfo       NotificationType = "info"
	NotificationTypeAutomation NotificationType = "automation"
)

// Notification with an empty UserID is addressed to every admin of the church
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID  string             `bson:"church_id" json:"church_id"`
	UserID    string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      NotificationType   `bson:"type" json:"type"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
}
