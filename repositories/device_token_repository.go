package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plansapp/plans_backend/config"
	"github.com/plansapp/plans_backend/models"
)

type DeviceTokenRepository struct {
	collection *mongo.Collection
}

func NewDeviceTokenRepository(db *mongo.Client) *DeviceTokenRepository {
	return &DeviceTokenRepository{
		collection: config.GetCollection(db, "user_device_tokens"),
	}
}

// Register stores a device token for a user. Registering the same
// (userId, token) pair again is a no-op; the unique index backs this up even
// under concurrent registrations.
func (r *DeviceTokenRepository) Register(ctx context.Context, userID, token, platform string) error {
	filter := bson.M{"userId": userID, "token": token}
	update := bson.M{
		"$setOnInsert": bson.M{
			"platform":  platform,
			"createdAt": time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetTokens returns every token registered for the user, oldest first.
// A user with no devices yields an empty slice, not an error.
func (r *DeviceTokenRepository) GetTokens(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.DeviceToken
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(docs))
	for _, d := range docs {
		tokens = append(tokens, d.Token)
	}
	return tokens, nil
}
