package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// SaveWeeklyDigest stores a digest, replacing an earlier one with the same id.
// Digest ids are derived from the user and the week, so re-running a week overwrites it.
func (r *Repository) SaveWeeklyDigest(ctx context.Context, digest models.WeeklyDigest) error {
	filter := bson.D{{Key: "_id", Value: digest.ID}}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection(digestsCollection).ReplaceOne(ctx, filter, digest, opts); err != nil {
		return fmt.Errorf("failed to save weekly digest: %w", err)
	}
	return nil
}
