package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// GetProfile loads the profile whose id is the auth subject.
func (r *Repository) GetProfile(ctx context.Context, userID string) (models.Breeder, error) {
	var profile models.Breeder
	err := r.collection(profilesCollection).FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&profile)
	if err != nil {
		return models.Breeder{}, notFound(err, "profile", userID)
	}
	return profile, nil
}

// UpsertProfile creates or replaces a profile.
func (r *Repository) UpsertProfile(ctx context.Context, profile models.Breeder) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection(profilesCollection).ReplaceOne(ctx, bson.D{{Key: "_id", Value: profile.ID}}, profile, opts)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.ID, err)
	}
	return nil
}

// ListProfiles returns every breeder profile.
func (r *Repository) ListProfiles(ctx context.Context) ([]models.Breeder, error) {
	cur, err := r.collection(profilesCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return decodeAll[models.Breeder](ctx, cur)
}
