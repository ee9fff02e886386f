package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join request status values
const (
	JoinStatusPending  = "pending"
	JoinStatusAccepted = "accepted"
	JoinStatusRejected = "rejected"
)

// Plan model
type Plan struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CreatorID   string             `json:"creatorId" bson:"creatorId"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Location    string             `json:"location" bson:"location"`
	Time        string             `json:"time" bson:"time"` // ISO datetime string supplied by the client
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// JoinRequest model. At most one request per (planId, userId).
type JoinRequest struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PlanID    string             `json:"planId" bson:"planId"`
	UserID    string             `json:"userId" bson:"userId"`
	Status    string             `json:"status" bson:"status"` // pending / accepted / rejected
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Like model. The (planId, userId) pair is unique.
type Like struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PlanID    string             `json:"planId" bson:"planId"`
	UserID    string             `json:"userId" bson:"userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreatePlanRequest is the request body for creating a plan
type CreatePlanRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location" validate:"required"`
	Time        string `json:"time" validate:"required"`
}

// JoinRequestView is a join request enriched with the requester's profile.
type JoinRequestView struct {
	JoinRequest
	User UserProfile `json:"user"`
}

// JoinRequestPage is a page of join requests for a plan.
type JoinRequestPage struct {
	Items []JoinRequestView `json:"items"`
	Meta  PaginationMeta    `json:"meta"`
}

// PlanMember is an accepted participant of a plan.
type PlanMember struct {
	UserID   string      `json:"userId"`
	JoinedAt time.Time   `json:"joinedAt"`
	User     UserProfile `json:"user"`
}

// MemberPage is a page of a plan's accepted members.
type MemberPage struct {
	Members []PlanMember   `json:"members"`
	Meta    PaginationMeta `json:"meta"`
}
