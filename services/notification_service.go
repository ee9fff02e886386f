package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/plansapp/plans_backend/models"
)

// NotificationStore persists and queries a user's notification history.
type NotificationStore interface {
	Save(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID string) (*models.Notification, error)
}

// DeviceTokenRegistry looks up a user's registered device tokens.
type DeviceTokenRegistry interface {
	GetTokens(ctx context.Context, userID string) ([]string, error)
}

// PushDispatcher fans a notification out to a set of device tokens.
type PushDispatcher interface {
	SendPush(ctx context.Context, tokens []string, title, message string, data map[string]interface{}) *models.DeliveryReport
}

// NotificationService turns inbound notification events into stored
// notifications and best-effort pushes, and serves the history endpoints.
type NotificationService struct {
	store  NotificationStore
	tokens DeviceTokenRegistry
	push   PushDispatcher
}

func NewNotificationService(store NotificationStore, tokens DeviceTokenRegistry, push PushDispatcher) *NotificationService {
	return &NotificationService{
		store:  store,
		tokens: tokens,
		push:   push,
	}
}

// HandleIncoming processes one message from the notifications topic.
//
// A non-nil error means the store write failed: the message must not be
// committed and the consumer retries it in place until the write succeeds
// (at-least-once; a duplicate row after a redelivery is accepted). Every
// other failure is terminal for the message: malformed or recipient-less
// events are discarded, and token lookup or push failures never undo the
// already-stored notification.
func (s *NotificationService) HandleIncoming(ctx context.Context, value []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("Failed to decode notification event, discarding: %v", err)
		return nil
	}

	if event.UserID == "" {
		log.Println("Notification event with no userId, skipping.")
		return nil
	}

	saved, err := s.store.Save(ctx, &models.Notification{
		UserID:  event.UserID,
		Event:   event.Event,
		Title:   event.Title,
		Message: event.Message,
		Data:    event.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	log.Printf("Notification saved %s -> user %s", saved.ID.Hex(), saved.UserID)

	tokens, err := s.tokens.GetTokens(ctx, event.UserID)
	if err != nil {
		log.Printf("Failed to load device tokens for user %s: %v", event.UserID, err)
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}

	s.push.SendPush(ctx, tokens, event.Title, event.Message, event.Data)
	return nil
}

// List returns one page of a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, page, pageSize int) (*models.NotificationPage, error) {
	items, total, err := s.store.List(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &models.NotificationPage{
		Items: items,
		Meta: models.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		},
	}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	return s.store.MarkRead(ctx, id, userID)
}

func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}
