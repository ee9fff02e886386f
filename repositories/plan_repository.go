package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plansapp/plans_backend/config"
	"github.com/plansapp/plans_backend/models"
)

type PlanRepository struct {
	plans        *mongo.Collection
	joinRequests *mongo.Collection
	likes        *mongo.Collection
}

func NewPlanRepository(db *mongo.Client) *PlanRepository {
	return &PlanRepository{
		plans:        config.GetCollection(db, "plans"),
		joinRequests: config.GetCollection(db, "plan_join_requests"),
		likes:        config.GetCollection(db, "plan_likes"),
	}
}

func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now()

	_, err := r.plans.InsertOne(ctx, plan)
	return err
}

func (r *PlanRepository) Get(ctx context.Context, id string) (*models.Plan, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var plan models.Plan
	err = r.plans.FindOne(ctx, bson.M{"_id": objectID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Feed returns the 20 most recently created plans.
func (r *PlanRepository) Feed(ctx context.Context) ([]models.Plan, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(20)

	cursor, err := r.plans.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []models.Plan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateJoinRequest inserts a pending join request. The unique
// (planId, userId) index is the authoritative duplicate check; a duplicate
// key error comes back as ErrAlreadyExists.
func (r *PlanRepository) CreateJoinRequest(ctx context.Context, planID, userID string) (*models.JoinRequest, error) {
	req := &models.JoinRequest{
		ID:        primitive.NewObjectID(),
		PlanID:    planID,
		UserID:    userID,
		Status:    models.JoinStatusPending,
		CreatedAt: time.Now(),
	}

	_, err := r.joinRequests.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return req, nil
}

// SetJoinRequestStatus updates the status of the request identified by
// (planId, userId) and returns the updated document.
func (r *PlanRepository) SetJoinRequestStatus(ctx context.Context, planID, userID, status string) (*models.JoinRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.JoinRequest
	err := r.joinRequests.FindOneAndUpdate(ctx,
		bson.M{"planId": planID, "userId": userID},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// ListJoinRequests returns one page of a plan's join requests, newest first.
// An empty status matches all statuses.
func (r *PlanRepository) ListJoinRequests(ctx context.Context, planID, status string, page, pageSize int) ([]models.JoinRequest, int64, error) {
	filter := bson.M{"planId": planID}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.joinRequests.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.joinRequests.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []models.JoinRequest{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CreateLike records a like. The unique (planId, userId) index rejects
// double likes; duplicates come back as ErrAlreadyExists.
func (r *PlanRepository) CreateLike(ctx context.Context, planID, userID string) error {
	like := &models.Like{
		ID:        primitive.NewObjectID(),
		PlanID:    planID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	_, err := r.likes.InsertOne(ctx, like)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteLike removes a like if present. Unliking a plan that was never
// liked is not an error.
func (r *PlanRepository) DeleteLike(ctx context.Context, planID, userID string) error {
	_, err := r.likes.DeleteOne(ctx, bson.M{"planId": planID, "userId": userID})
	return err
}
