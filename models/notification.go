package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification model
type Notification struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string                 `json:"userId" bson:"userId"` // The user who receives the notification
	Event     string                 `json:"event" bson:"event"`   // Event tag (e.g., "plan.join.accepted")
	Title     string                 `json:"title" bson:"title"`
	Message   string                 `json:"message" bson:"message"`
	Data      map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
	Read      bool                   `json:"read" bson:"read"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}

// NotificationEvent is the message body published on the notifications topic.
// UserID is the recipient of the notification, not necessarily the actor who
// caused the event.
type NotificationEvent struct {
	Event   string                 `json:"event"`
	UserID  string                 `json:"userId"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Meta    EventMeta              `json:"meta"`
}

// EventMeta identifies where and when an event was produced.
type EventMeta struct {
	Source    string `json:"source"`
	EventID   string `json:"eventId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// NotificationPage is a page of a user's notification history, newest first.
type NotificationPage struct {
	Items []Notification `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

// DeliveryReport summarizes one multicast push attempt.
type DeliveryReport struct {
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
}
