package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceToken model. A user may own several tokens (one per device); the
// (userId, token) pair is unique.
type DeviceToken struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Token     string             `json:"token" bson:"token"`       // FCM or APNs token
	Platform  string             `json:"platform" bson:"platform"` // android / ios
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// RegisterDeviceTokenRequest is the request body for registering a device token
type RegisterDeviceTokenRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform,omitempty"`
}
