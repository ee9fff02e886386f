package services

import (
	"context"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"

	"github.com/plansapp/plans_backend/models"
)

// clickAction is the routing hint the mobile client uses to open the right
// screen. It is set after the caller data is merged so callers cannot
// override it.
const clickAction = "FLUTTER_NOTIFICATION_CLICK"

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// PushService delivers notifications to device tokens through FCM. It is an
// optional capability: without Firebase credentials the client is nil and
// every send is a logged no-op. Push is best-effort auxiliary delivery; the
// stored notification is the source of truth, so no error ever escapes this
// service.
type PushService struct {
	client multicastSender
}

func NewPushService(app *firebase.App) *PushService {
	if app == nil {
		return &PushService{}
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("Error getting messaging client: %v", err)
		return &PushService{}
	}
	return &PushService{client: client}
}

// SendPush multicasts one notification to all given tokens. Individual token
// failures do not fail the call; the report carries per-token counts.
func (s *PushService) SendPush(ctx context.Context, tokens []string, title, message string, data map[string]interface{}) *models.DeliveryReport {
	if s.client == nil {
		log.Println("Firebase not initialized — skipping push")
		return &models.DeliveryReport{}
	}
	if len(tokens) == 0 {
		return &models.DeliveryReport{}
	}

	fcmMessage := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: buildPushData(data),
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  message,
					},
					Sound: "default",
				},
			},
		},
	}

	// A hung FCM call would stall the partition's processing loop
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := s.client.SendEachForMulticast(ctx, fcmMessage)
	if err != nil {
		log.Printf("Push delivery failed: %v", err)
		return &models.DeliveryReport{FailureCount: len(tokens)}
	}

	log.Printf("Push delivered: success=%d, failed=%d", response.SuccessCount, response.FailureCount)
	return &models.DeliveryReport{
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
	}
}

// buildPushData flattens the caller data into the FCM string bundle and
// appends the fixed routing hint last.
func buildPushData(data map[string]interface{}) map[string]string {
	result := make(map[string]string, len(data)+1)
	for key, value := range data {
		if str, ok := value.(string); ok {
			result[key] = str
		} else if value != nil {
			result[key] = fmt.Sprint(value)
		} else {
			result[key] = ""
		}
	}
	result["click_action"] = clickAction
	return result
}
