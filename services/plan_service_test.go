package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plansapp/plans_backend/models"
	"github.com/plansapp/plans_backend/repositories"
)

const testTopic = "notifications.push"

// --- mocks ---

type mockPlanStore struct{ mock.Mock }

func (m *mockPlanStore) Create(ctx context.Context, plan *models.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *mockPlanStore) Get(ctx context.Context, id string) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if p, _ := args.Get(0).(*models.Plan); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlanStore) Feed(ctx context.Context) ([]models.Plan, error) {
	args := m.Called(ctx)
	plans, _ := args.Get(0).([]models.Plan)
	return plans, args.Error(1)
}

func (m *mockPlanStore) CreateJoinRequest(ctx context.Context, planID, userID string) (*models.JoinRequest, error) {
	args := m.Called(ctx, planID, userID)
	if r, _ := args.Get(0).(*models.JoinRequest); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlanStore) SetJoinRequestStatus(ctx context.Context, planID, userID, status string) (*models.JoinRequest, error) {
	args := m.Called(ctx, planID, userID, status)
	if r, _ := args.Get(0).(*models.JoinRequest); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlanStore) ListJoinRequests(ctx context.Context, planID, status string, page, pageSize int) ([]models.JoinRequest, int64, error) {
	args := m.Called(ctx, planID, status, page, pageSize)
	items, _ := args.Get(0).([]models.JoinRequest)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockPlanStore) CreateLike(ctx context.Context, planID, userID string) error {
	return m.Called(ctx, planID, userID).Error(0)
}

func (m *mockPlanStore) DeleteLike(ctx context.Context, planID, userID string) error {
	return m.Called(ctx, planID, userID).Error(0)
}

type publishedMessage struct {
	topic   string
	key     string
	payload interface{}
}

// fakePublisher records every publish so tests can assert on the producer
// contract without a broker.
type fakePublisher struct {
	mu       sync.Mutex
	err      error
	messages []publishedMessage
}

func (f *fakePublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, publishedMessage{topic: topic, key: key, payload: payload})
	return f.err
}

func (f *fakePublisher) onTopic(topic string) []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []publishedMessage
	for _, m := range f.messages {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}

type fakeProfiles struct {
	profiles map[string]models.UserProfile
}

func (f *fakeProfiles) GetProfiles(ctx context.Context, userIDs []string) map[string]models.UserProfile {
	if f.profiles == nil {
		return map[string]models.UserProfile{}
	}
	return f.profiles
}

func testPlan(creatorID, title string) *models.Plan {
	return &models.Plan{
		ID:        primitive.NewObjectID(),
		CreatorID: creatorID,
		Title:     title,
	}
}

func testJoinRequest(planID, userID, status string) *models.JoinRequest {
	return &models.JoinRequest{
		ID:     primitive.NewObjectID(),
		PlanID: planID,
		UserID: userID,
		Status: status,
	}
}

// --- tests ---

func TestRequestJoinNotifiesPlanOwner(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("Get", mock.Anything, planID).Return(plan, nil)
	store.On("CreateJoinRequest", mock.Anything, planID, "requester1").
		Return(testJoinRequest(planID, "requester1", models.JoinStatusPending), nil)

	err := svc.RequestJoin(context.Background(), planID, "requester1")
	require.NoError(t, err)

	domain := publisher.onTopic("plan.join.requested")
	require.Len(t, domain, 1)

	notifs := publisher.onTopic(testTopic)
	require.Len(t, notifs, 1)

	event, ok := notifs[0].payload.(models.NotificationEvent)
	require.True(t, ok)
	assert.Equal(t, "plan.join.requested", event.Event)
	assert.Equal(t, "owner1", event.UserID)
	assert.Equal(t, "owner1", notifs[0].key)
	assert.Equal(t, "New join request", event.Title)
	assert.Equal(t, `requester1 requested to join your plan "Beach day"`, event.Message)
	assert.Equal(t, "plan-service", event.Meta.Source)
	assert.NotEmpty(t, event.Meta.EventID)
}

func TestRequestJoinDuplicateDoesNotPublish(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("Get", mock.Anything, planID).Return(plan, nil)
	store.On("CreateJoinRequest", mock.Anything, planID, "requester1").
		Return(nil, repositories.ErrAlreadyExists)

	err := svc.RequestJoin(context.Background(), planID, "requester1")
	assert.ErrorIs(t, err, repositories.ErrAlreadyExists)
	assert.Empty(t, publisher.messages)
}

func TestAcceptJoinNotifiesRequester(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("Get", mock.Anything, planID).Return(plan, nil)
	store.On("SetJoinRequestStatus", mock.Anything, planID, "u1", models.JoinStatusAccepted).
		Return(testJoinRequest(planID, "u1", models.JoinStatusAccepted), nil)

	err := svc.AcceptJoin(context.Background(), planID, "owner1", "u1")
	require.NoError(t, err)

	notifs := publisher.onTopic(testTopic)
	require.Len(t, notifs, 1)

	event := notifs[0].payload.(models.NotificationEvent)
	assert.Equal(t, "plan.join.accepted", event.Event)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "Join request accepted", event.Title)
	assert.Equal(t, `Your request to join "Beach day" has been accepted.`, event.Message)
}

func TestAcceptJoinByNonOwnerIsForbidden(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("Get", mock.Anything, planID).Return(plan, nil)

	err := svc.AcceptJoin(context.Background(), planID, "intruder", "u1")
	assert.ErrorIs(t, err, ErrNotOwner)

	store.AssertNotCalled(t, "SetJoinRequestStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, publisher.messages)
}

func TestRejectJoinNotifiesRequester(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("Get", mock.Anything, planID).Return(plan, nil)
	store.On("SetJoinRequestStatus", mock.Anything, planID, "u1", models.JoinStatusRejected).
		Return(testJoinRequest(planID, "u1", models.JoinStatusRejected), nil)

	err := svc.RejectJoin(context.Background(), planID, "owner1", "u1")
	require.NoError(t, err)

	notifs := publisher.onTopic(testTopic)
	require.Len(t, notifs, 1)

	event := notifs[0].payload.(models.NotificationEvent)
	assert.Equal(t, "plan.join.rejected", event.Event)
	assert.Equal(t, `Your request to join "Beach day" was rejected by the organizer.`, event.Message)
}

func TestLikeNotifiesOwner(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("CreateLike", mock.Anything, planID, "liker1").Return(nil)
	store.On("Get", mock.Anything, planID).Return(plan, nil)

	err := svc.Like(context.Background(), planID, "liker1")
	require.NoError(t, err)

	require.Len(t, publisher.onTopic("plan.liked"), 1)

	notifs := publisher.onTopic(testTopic)
	require.Len(t, notifs, 1)

	event := notifs[0].payload.(models.NotificationEvent)
	assert.Equal(t, "plan.liked", event.Event)
	assert.Equal(t, "owner1", event.UserID)
	assert.Equal(t, "liker1", event.Data["likedBy"])
}

func TestLikeOwnPlanSuppressesNotification(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("CreateLike", mock.Anything, planID, "owner1").Return(nil)
	store.On("Get", mock.Anything, planID).Return(plan, nil)

	err := svc.Like(context.Background(), planID, "owner1")
	require.NoError(t, err)

	assert.Len(t, publisher.onTopic("plan.liked"), 1)
	assert.Empty(t, publisher.onTopic(testTopic))
}

func TestUnlikeSuppressesNotification(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	store.On("DeleteLike", mock.Anything, "p1", "u1").Return(nil)

	err := svc.Unlike(context.Background(), "p1", "u1")
	require.NoError(t, err)

	assert.Len(t, publisher.onTopic("plan.unliked"), 1)
	assert.Empty(t, publisher.onTopic(testTopic))
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{err: errors.New("broker unreachable")}
	svc := NewPlanService(store, publisher, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("Get", mock.Anything, planID).Return(plan, nil)
	store.On("CreateJoinRequest", mock.Anything, planID, "u1").
		Return(testJoinRequest(planID, "u1", models.JoinStatusPending), nil)

	// The join request is the source of truth; losing the events is
	// accepted.
	err := svc.RequestJoin(context.Background(), planID, "u1")
	assert.NoError(t, err)
}

func TestGetJoinRequestsEnrichesProfiles(t *testing.T) {
	store := &mockPlanStore{}
	publisher := &fakePublisher{}
	profiles := &fakeProfiles{profiles: map[string]models.UserProfile{
		"u1": {ID: "u1", Name: "Ana", AvatarURL: "https://cdn/a.png"},
	}}
	svc := NewPlanService(store, publisher, profiles, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	items := []models.JoinRequest{
		*testJoinRequest(planID, "u1", models.JoinStatusPending),
		*testJoinRequest(planID, "u2", models.JoinStatusPending),
	}

	store.On("Get", mock.Anything, planID).Return(plan, nil)
	store.On("ListJoinRequests", mock.Anything, planID, "", 1, 20).Return(items, int64(2), nil)

	page, err := svc.GetJoinRequests(context.Background(), planID, "owner1", "", 1, 20)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "Ana", page.Items[0].User.Name)
	// Unknown users fall back to a minimal profile
	assert.Equal(t, models.UserProfile{ID: "u2"}, page.Items[1].User)
	assert.Equal(t, int64(1), page.Meta.TotalPages)
}

func TestGetJoinRequestsByNonOwnerIsForbidden(t *testing.T) {
	store := &mockPlanStore{}
	svc := NewPlanService(store, &fakePublisher{}, &fakeProfiles{}, testTopic)

	plan := testPlan("owner1", "Beach day")
	planID := plan.ID.Hex()

	store.On("Get", mock.Anything, planID).Return(plan, nil)

	_, err := svc.GetJoinRequests(context.Background(), planID, "intruder", "", 1, 20)
	assert.ErrorIs(t, err, ErrNotOwner)
}
