package services

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender captures the multicast message instead of calling FCM.
type fakeSender struct {
	message  *messaging.MulticastMessage
	response *messaging.BatchResponse
	err      error
	calls    int
}

func (f *fakeSender) SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.calls++
	f.message = message
	return f.response, f.err
}

func TestSendPushMulticastsToAllTokens(t *testing.T) {
	sender := &fakeSender{response: &messaging.BatchResponse{SuccessCount: 1, FailureCount: 1}}
	svc := &PushService{client: sender}

	tokens := []string{"token-a", "token-b"}
	report := svc.SendPush(context.Background(), tokens, "Join request accepted", "You're in.", map[string]interface{}{"planId": "p1"})

	require.Equal(t, 1, sender.calls)
	assert.Equal(t, tokens, sender.message.Tokens)
	assert.Equal(t, "Join request accepted", sender.message.Notification.Title)
	assert.Equal(t, "You're in.", sender.message.Notification.Body)
	assert.Equal(t, "p1", sender.message.Data["planId"])

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 1, report.FailureCount)
}

func TestSendPushUnconfiguredIsNoOp(t *testing.T) {
	svc := &PushService{}

	report := svc.SendPush(context.Background(), []string{"token-a"}, "t", "m", nil)

	require.NotNil(t, report)
	assert.Zero(t, report.SuccessCount)
	assert.Zero(t, report.FailureCount)
}

func TestSendPushNoTokensIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	svc := &PushService{client: sender}

	svc.SendPush(context.Background(), nil, "t", "m", nil)

	assert.Zero(t, sender.calls)
}

func TestSendPushBackendFailureIsSuppressed(t *testing.T) {
	sender := &fakeSender{err: errors.New("backend unreachable")}
	svc := &PushService{client: sender}

	report := svc.SendPush(context.Background(), []string{"a", "b"}, "t", "m", nil)

	// The failure is swallowed; only the report records it
	assert.Equal(t, 2, report.FailureCount)
}

func TestBuildPushDataRoutingHintWins(t *testing.T) {
	data := buildPushData(map[string]interface{}{
		"planId":       "p1",
		"count":        3,
		"nothing":      nil,
		"click_action": "HIJACKED",
	})

	assert.Equal(t, "p1", data["planId"])
	assert.Equal(t, "3", data["count"])
	assert.Equal(t, "", data["nothing"])
	// Caller data cannot override the routing hint
	assert.Equal(t, clickAction, data["click_action"])
}

func TestBuildPushDataEmpty(t *testing.T) {
	data := buildPushData(nil)
	assert.Equal(t, map[string]string{"click_action": clickAction}, data)
}
