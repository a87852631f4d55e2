package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// ListPairs returns the user's pairs, newest first.
func (r *Repository) ListPairs(ctx context.Context, userID string) ([]models.BreedingPair, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.collection(pairsCollection).Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	return decodeAll[models.BreedingPair](ctx, cur)
}

// CountPairs counts the user's pairs.
func (r *Repository) CountPairs(ctx context.Context, userID string) (int, error) {
	n, err := r.collection(pairsCollection).CountDocuments(ctx, bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		return 0, fmt.Errorf("count pairs: %w", err)
	}
	return int(n), nil
}

// HatchedInProgress sums the hatched chicks of every running cycle of the user.
func (r *Repository) HatchedInProgress(ctx context.Context, userID string) (int, error) {
	cur, err := r.collection(pairsCollection).Aggregate(ctx, hatchedPipeline(userID))
	if err != nil {
		return 0, fmt.Errorf("aggregate hatched chicks: %w", err)
	}
	rows, err := decodeAll[struct {
		Total int `bson:"total"`
	}](ctx, cur)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func hatchedPipeline(userID string) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}},
		bson.D{{Key: "$unwind", Value: "$cycles"}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "cycles.status", Value: models.CycleInProgress}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$cycles.hatched_count"}}},
		}}},
	}
}

// GetPair loads one pair of the user.
func (r *Repository) GetPair(ctx context.Context, userID, id string) (models.BreedingPair, error) {
	var pair models.BreedingPair
	err := r.collection(pairsCollection).FindOne(ctx, owned(userID, id)).Decode(&pair)
	if err != nil {
		return models.BreedingPair{}, notFound(err, "pair", id)
	}
	return pair, nil
}

// InsertPair stores a new pair.
func (r *Repository) InsertPair(ctx context.Context, pair models.BreedingPair) error {
	if pair.Cycles == nil {
		pair.Cycles = []models.BreedingCycle{}
	}
	if _, err := r.collection(pairsCollection).InsertOne(ctx, pair); err != nil {
		return fmt.Errorf("insert pair: %w", err)
	}
	return nil
}

// UpdatePair replaces the editable fields of a pair, keeping its cycles.
func (r *Repository) UpdatePair(ctx context.Context, pair models.BreedingPair) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: pair.Name},
		{Key: "male_id", Value: pair.MaleID},
		{Key: "female_id", Value: pair.FemaleID},
		{Key: "start_date", Value: pair.StartDate},
		{Key: "status", Value: pair.Status},
		{Key: "cage", Value: pair.Cage},
		{Key: "updated_at", Value: pair.UpdatedAt},
	}}}
	res, err := r.collection(pairsCollection).UpdateOne(ctx, owned(pair.UserID, pair.ID), update)
	return requireMatch(res, err, "pair", pair.ID)
}

// DeletePair removes a pair together with its cycles.
func (r *Repository) DeletePair(ctx context.Context, userID, id string) error {
	res, err := r.collection(pairsCollection).DeleteOne(ctx, owned(userID, id))
	if err != nil {
		return fmt.Errorf("delete pair %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("pair %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetPairStatus changes only the status of a pair.
func (r *Repository) SetPairStatus(ctx context.Context, userID, id string, status models.PairStatus) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}
	res, err := r.collection(pairsCollection).UpdateOne(ctx, owned(userID, id), update)
	return requireMatch(res, err, "pair", id)
}

// AddCycle appends a breeding cycle to a pair.
func (r *Repository) AddCycle(ctx context.Context, userID, pairID string, c models.BreedingCycle) error {
	return r.pushItem(ctx, pairCycles, userID, pairID, c)
}

// UpdateCycle replaces one breeding cycle.
func (r *Repository) UpdateCycle(ctx context.Context, userID, pairID string, c models.BreedingCycle) error {
	return r.setItem(ctx, pairCycles, userID, pairID, c.ID, c)
}

// DeleteCycle removes one breeding cycle.
func (r *Repository) DeleteCycle(ctx context.Context, userID, pairID, cycleID string) error {
	return r.pullItem(ctx, pairCycles, userID, pairID, cycleID)
}
