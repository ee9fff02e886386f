package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/plansapp/plans_backend/models"
	"github.com/plansapp/plans_backend/repositories"
)

var (
	// ErrNotOwner is returned when a user tries to manage a plan they did
	// not create.
	ErrNotOwner = errors.New("not the owner of this plan")

	// ErrJoinRequestNotFound is returned when accepting or rejecting a
	// request that does not exist.
	ErrJoinRequestNotFound = errors.New("join request not found")
)

// PlanStore persists plans, join requests and likes.
type PlanStore interface {
	Create(ctx context.Context, plan *models.Plan) error
	Get(ctx context.Context, id string) (*models.Plan, error)
	Feed(ctx context.Context) ([]models.Plan, error)
	CreateJoinRequest(ctx context.Context, planID, userID string) (*models.JoinRequest, error)
	SetJoinRequestStatus(ctx context.Context, planID, userID, status string) (*models.JoinRequest, error)
	ListJoinRequests(ctx context.Context, planID, status string, page, pageSize int) ([]models.JoinRequest, int64, error)
	CreateLike(ctx context.Context, planID, userID string) error
	DeleteLike(ctx context.Context, planID, userID string) error
}

// ProfileLookup resolves user ids to public profiles.
type ProfileLookup interface {
	GetProfiles(ctx context.Context, userIDs []string) map[string]models.UserProfile
}

// PlanService owns the plan lifecycle and is the event producer: every state
// change that should inform a human publishes a domain event and, where the
// contract requires it, a notification event addressed to the recipient.
// The state mutation is the source of truth; publication failures are logged
// and never roll it back.
type PlanService struct {
	store    PlanStore
	producer Publisher
	users    ProfileLookup
	topic    string
}

func NewPlanService(store PlanStore, producer Publisher, users ProfileLookup, notificationTopic string) *PlanService {
	return &PlanService{
		store:    store,
		producer: producer,
		users:    users,
		topic:    notificationTopic,
	}
}

// CreatePlan stores a new plan and publishes plan.created.
func (s *PlanService) CreatePlan(ctx context.Context, creatorID string, req *models.CreatePlanRequest) (*models.Plan, error) {
	plan := &models.Plan{
		CreatorID:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Time:        req.Time,
	}

	if err := s.store.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.publishDomain(ctx, "plan.created", plan.ID.Hex(), plan)
	return plan, nil
}

func (s *PlanService) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	return s.store.Get(ctx, planID)
}

// Feed returns the latest plans.
func (s *PlanService) Feed(ctx context.Context) ([]models.Plan, error) {
	return s.store.Feed(ctx)
}

// RequestJoin records a pending join request and notifies the plan owner.
func (s *PlanService) RequestJoin(ctx context.Context, planID, userID string) error {
	plan, err := s.store.Get(ctx, planID)
	if err != nil {
		return err
	}

	req, err := s.store.CreateJoinRequest(ctx, planID, userID)
	if err != nil {
		return err
	}

	s.publishDomain(ctx, "plan.join.requested", planID, req)

	s.notify(ctx, models.NotificationEvent{
		Event:   "plan.join.requested",
		UserID:  plan.CreatorID,
		Title:   "New join request",
		Message: fmt.Sprintf("%s requested to join your plan \"%s\"", userID, plan.Title),
		Data: map[string]interface{}{
			"planId":        plan.ID.Hex(),
			"requesterId":   userID,
			"joinRequestId": req.ID.Hex(),
		},
	})
	return nil
}

// AcceptJoin transitions a request to accepted and notifies the requester.
// Only the plan owner may accept.
func (s *PlanService) AcceptJoin(ctx context.Context, planID, ownerID, targetUserID string) error {
	plan, err := s.store.Get(ctx, planID)
	if err != nil {
		return err
	}
	if plan.CreatorID != ownerID {
		return ErrNotOwner
	}

	req, err := s.store.SetJoinRequestStatus(ctx, planID, targetUserID, models.JoinStatusAccepted)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrJoinRequestNotFound
		}
		return err
	}

	s.publishDomain(ctx, "plan.join.accepted", planID, req)

	s.notify(ctx, models.NotificationEvent{
		Event:   "plan.join.accepted",
		UserID:  targetUserID,
		Title:   "Join request accepted",
		Message: fmt.Sprintf("Your request to join \"%s\" has been accepted.", plan.Title),
		Data: map[string]interface{}{
			"planId":        plan.ID.Hex(),
			"by":            ownerID,
			"joinRequestId": req.ID.Hex(),
		},
	})
	return nil
}

// RejectJoin transitions a request to rejected and notifies the requester.
// Only the plan owner may reject.
func (s *PlanService) RejectJoin(ctx context.Context, planID, ownerID, targetUserID string) error {
	plan, err := s.store.Get(ctx, planID)
	if err != nil {
		return err
	}
	if plan.CreatorID != ownerID {
		return ErrNotOwner
	}

	req, err := s.store.SetJoinRequestStatus(ctx, planID, targetUserID, models.JoinStatusRejected)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrJoinRequestNotFound
		}
		return err
	}

	s.publishDomain(ctx, "plan.join.rejected", planID, req)

	s.notify(ctx, models.NotificationEvent{
		Event:   "plan.join.rejected",
		UserID:  targetUserID,
		Title:   "Join request rejected",
		Message: fmt.Sprintf("Your request to join \"%s\" was rejected by the organizer.", plan.Title),
		Data: map[string]interface{}{
			"planId":        plan.ID.Hex(),
			"by":            ownerID,
			"joinRequestId": req.ID.Hex(),
		},
	})
	return nil
}

// Like records a like and notifies the plan owner, unless the liker is the
// owner themselves.
func (s *PlanService) Like(ctx context.Context, planID, userID string) error {
	if err := s.store.CreateLike(ctx, planID, userID); err != nil {
		return err
	}

	s.publishDomain(ctx, "plan.liked", planID, map[string]string{"planId": planID, "userId": userID})

	plan, err := s.store.Get(ctx, planID)
	if err != nil {
		log.Printf("Failed to load plan %s for like notification: %v", planID, err)
		return nil
	}
	if plan.CreatorID == userID {
		return nil
	}

	s.notify(ctx, models.NotificationEvent{
		Event:   "plan.liked",
		UserID:  plan.CreatorID,
		Title:   "Someone liked your plan",
		Message: fmt.Sprintf("%s liked your plan \"%s\"", userID, plan.Title),
		Data: map[string]interface{}{
			"planId":  plan.ID.Hex(),
			"likedBy": userID,
		},
	})
	return nil
}

// Unlike removes a like. No notification is sent on unlike.
func (s *PlanService) Unlike(ctx context.Context, planID, userID string) error {
	if err := s.store.DeleteLike(ctx, planID, userID); err != nil {
		return err
	}

	s.publishDomain(ctx, "plan.unliked", planID, map[string]string{"planId": planID, "userId": userID})
	return nil
}

// GetJoinRequests lists a plan's join requests for its owner, enriched with
// requester profiles.
func (s *PlanService) GetJoinRequests(ctx context.Context, planID, requesterID, status string, page, pageSize int) (*models.JoinRequestPage, error) {
	plan, err := s.store.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.CreatorID != requesterID {
		return nil, ErrNotOwner
	}

	items, total, err := s.store.ListJoinRequests(ctx, planID, status, page, pageSize)
	if err != nil {
		return nil, err
	}

	profiles := s.users.GetProfiles(ctx, uniqueUserIDs(items))

	views := make([]models.JoinRequestView, 0, len(items))
	for _, item := range items {
		views = append(views, models.JoinRequestView{
			JoinRequest: item,
			User:        profileOrFallback(profiles, item.UserID),
		})
	}

	return &models.JoinRequestPage{
		Items: views,
		Meta: models.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		},
	}, nil
}

// GetMembers lists a plan's accepted members, enriched with profiles.
func (s *PlanService) GetMembers(ctx context.Context, planID string, page, pageSize int) (*models.MemberPage, error) {
	if _, err := s.store.Get(ctx, planID); err != nil {
		return nil, err
	}

	items, total, err := s.store.ListJoinRequests(ctx, planID, models.JoinStatusAccepted, page, pageSize)
	if err != nil {
		return nil, err
	}

	profiles := s.users.GetProfiles(ctx, uniqueUserIDs(items))

	members := make([]models.PlanMember, 0, len(items))
	for _, item := range items {
		members = append(members, models.PlanMember{
			UserID:   item.UserID,
			JoinedAt: item.CreatedAt,
			User:     profileOrFallback(profiles, item.UserID),
		})
	}

	return &models.MemberPage{
		Members: members,
		Meta: models.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		},
	}, nil
}

// notify publishes a notification event keyed by its recipient. Delivery is
// best-effort relative to the state change that triggered it.
func (s *PlanService) notify(ctx context.Context, event models.NotificationEvent) {
	event.Meta = models.EventMeta{
		Source:    "plan-service",
		EventID:   uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.producer.Publish(ctx, s.topic, event.UserID, event); err != nil {
		log.Printf("Failed to emit notification for %s: %v", event.Event, err)
	}
}

func (s *PlanService) publishDomain(ctx context.Context, topic, key string, payload interface{}) {
	if err := s.producer.Publish(ctx, topic, key, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", topic, err)
	}
}

func uniqueUserIDs(items []models.JoinRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.UserID]; ok {
			continue
		}
		seen[item.UserID] = struct{}{}
		ids = append(ids, item.UserID)
	}
	return ids
}

func profileOrFallback(profiles map[string]models.UserProfile, userID string) models.UserProfile {
	if profile, ok := profiles[userID]; ok {
		return profile
	}
	return models.UserProfile{ID: userID}
}
