package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// BirdFilter narrows bird listings and counts.
type BirdFilter struct {
	// Query matches name, ring number or species, case-insensitively.
	Query string
	// Statuses keeps only these statuses when not empty.
	Statuses []models.BirdStatus
	// ExcludeStatuses drops these statuses.
	ExcludeStatuses []models.BirdStatus
	// BornFrom and BornTo bound the birth date, inclusive, as YYYY-MM-DD.
	BornFrom string
	BornTo   string
}

func birdFilter(userID string, f BirdFilter) bson.D {
	filter := bson.D{{Key: "user_id", Value: userID}}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.M{"name": pattern},
			bson.M{"ring_number": pattern},
			bson.M{"species": pattern},
		}})
	}

	status := bson.M{}
	if len(f.Statuses) > 0 {
		status["$in"] = f.Statuses
	}
	if len(f.ExcludeStatuses) > 0 {
		status["$nin"] = f.ExcludeStatuses
	}
	if len(status) > 0 {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}

	born := bson.M{}
	if f.BornFrom != "" {
		born["$gte"] = f.BornFrom
	}
	if f.BornTo != "" {
		born["$lte"] = f.BornTo
	}
	if len(born) > 0 {
		filter = append(filter, bson.E{Key: "birth_date", Value: born})
	}
	return filter
}

// ListBirds returns the user's birds, newest first.
func (r *Repository) ListBirds(ctx context.Context, userID string, f BirdFilter) ([]models.Bird, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.collection(birdsCollection).Find(ctx, birdFilter(userID, f), opts)
	if err != nil {
		return nil, fmt.Errorf("list birds: %w", err)
	}
	return decodeAll[models.Bird](ctx, cur)
}

// CountBirds counts the user's birds matching f.
func (r *Repository) CountBirds(ctx context.Context, userID string, f BirdFilter) (int, error) {
	n, err := r.collection(birdsCollection).CountDocuments(ctx, birdFilter(userID, f))
	if err != nil {
		return 0, fmt.Errorf("count birds: %w", err)
	}
	return int(n), nil
}

// GetBird loads one bird of the user.
func (r *Repository) GetBird(ctx context.Context, userID, id string) (models.Bird, error) {
	var bird models.Bird
	err := r.collection(birdsCollection).FindOne(ctx, owned(userID, id)).Decode(&bird)
	if err != nil {
		return models.Bird{}, notFound(err, "bird", id)
	}
	return bird, nil
}

// InsertBird stores a new bird.
func (r *Repository) InsertBird(ctx context.Context, bird models.Bird) error {
	if bird.Logs == nil {
		bird.Logs = []models.BirdLog{}
	}
	if bird.Weights == nil {
		bird.Weights = []models.BirdWeight{}
	}
	if _, err := r.collection(birdsCollection).InsertOne(ctx, bird); err != nil {
		return fmt.Errorf("insert bird: %w", err)
	}
	return nil
}

// UpdateBird replaces the editable fields of a bird. Logs, weights and the
// creation time are left untouched.
func (r *Repository) UpdateBird(ctx context.Context, bird models.Bird) error {
	set := bson.D{
		{Key: "name", Value: bird.Name},
		{Key: "ring_number", Value: bird.RingNumber},
		{Key: "species", Value: bird.Species},
		{Key: "mutation", Value: bird.Mutation},
		{Key: "gender", Value: bird.Gender},
		{Key: "birth_date", Value: bird.BirthDate},
		{Key: "status", Value: bird.Status},
		{Key: "cage", Value: bird.Cage},
		{Key: "photo_url", Value: bird.PhotoURL},
		{Key: "notes", Value: bird.Notes},
		{Key: "updated_at", Value: bird.UpdatedAt},
	}
	set, unset := parentFields(set, bird)

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	res, err := r.collection(birdsCollection).UpdateOne(ctx, owned(bird.UserID, bird.ID), update)
	return requireMatch(res, err, "bird", bird.ID)
}

// parentFields sets the stored parent references, unsetting the empty ones.
func parentFields(set bson.D, bird models.Bird) (bson.D, bson.D) {
	var unset bson.D
	for _, p := range []struct{ key, value string }{
		{"father_id", bird.FatherID},
		{"mother_id", bird.MotherID},
	} {
		if p.value == "" {
			unset = append(unset, bson.E{Key: p.key, Value: ""})
		} else {
			set = append(set, bson.E{Key: p.key, Value: p.value})
		}
	}
	return set, unset
}

// DeleteBird removes a bird. Children keep their now dangling reference.
func (r *Repository) DeleteBird(ctx context.Context, userID, id string) error {
	res, err := r.collection(birdsCollection).DeleteOne(ctx, owned(userID, id))
	if err != nil {
		return fmt.Errorf("delete bird %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("bird %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// SetBirdStatus changes only the status of a bird.
func (r *Repository) SetBirdStatus(ctx context.Context, userID, id string, status models.BirdStatus) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}
	res, err := r.collection(birdsCollection).UpdateOne(ctx, owned(userID, id), update)
	return requireMatch(res, err, "bird", id)
}

// SetParent stores parentID as the role's reference; an empty id clears it.
func (r *Repository) SetParent(ctx context.Context, userID, id string, role models.ParentRole, parentID string) error {
	var key string
	switch role {
	case models.RoleFather:
		key = "father_id"
	case models.RoleMother:
		key = "mother_id"
	default:
		return models.Invalid("role", "unknown parent role %q", role)
	}

	update := bson.D{{Key: "$set", Value: bson.D{{Key: key, Value: parentID}}}}
	if parentID == "" {
		update = bson.D{{Key: "$unset", Value: bson.D{{Key: key, Value: ""}}}}
	}
	res, err := r.collection(birdsCollection).UpdateOne(ctx, owned(userID, id), update)
	return requireMatch(res, err, "bird", id)
}

// AddBirdLog appends a history entry to a bird.
func (r *Repository) AddBirdLog(ctx context.Context, userID, birdID string, entry models.BirdLog) error {
	return r.pushItem(ctx, birdLogs, userID, birdID, entry)
}

// UpdateBirdLog replaces one history entry.
func (r *Repository) UpdateBirdLog(ctx context.Context, userID, birdID string, entry models.BirdLog) error {
	return r.setItem(ctx, birdLogs, userID, birdID, entry.ID, entry)
}

// DeleteBirdLog removes one history entry.
func (r *Repository) DeleteBirdLog(ctx context.Context, userID, birdID, logID string) error {
	return r.pullItem(ctx, birdLogs, userID, birdID, logID)
}

// AddBirdWeight appends a measurement to a bird.
func (r *Repository) AddBirdWeight(ctx context.Context, userID, birdID string, w models.BirdWeight) error {
	return r.pushItem(ctx, birdWeights, userID, birdID, w)
}

// UpdateBirdWeight replaces one measurement.
func (r *Repository) UpdateBirdWeight(ctx context.Context, userID, birdID string, w models.BirdWeight) error {
	return r.setItem(ctx, birdWeights, userID, birdID, w.ID, w)
}

// DeleteBirdWeight removes one measurement.
func (r *Repository) DeleteBirdWeight(ctx context.Context, userID, birdID, weightID string) error {
	return r.pullItem(ctx, birdWeights, userID, birdID, weightID)
}

// embedded addresses a list of sub-documents carrying their own "id" field.
type embedded struct {
	coll  string
	owner string
	field string
	item  string
}

var (
	birdLogs    = embedded{coll: birdsCollection, owner: "bird", field: "logs", item: "log"}
	birdWeights = embedded{coll: birdsCollection, owner: "bird", field: "weights", item: "weight"}
	pairCycles  = embedded{coll: pairsCollection, owner: "pair", field: "cycles", item: "cycle"}
)

func (r *Repository) pushItem(ctx context.Context, e embedded, userID, ownerID string, item any) error {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: e.field, Value: item}}}}
	res, err := r.collection(e.coll).UpdateOne(ctx, owned(userID, ownerID), update)
	return requireMatch(res, err, e.owner, ownerID)
}

func (r *Repository) setItem(ctx context.Context, e embedded, userID, ownerID, itemID string, item any) error {
	filter := append(owned(userID, ownerID), bson.E{Key: e.field + ".id", Value: itemID})
	update := bson.D{{Key: "$set", Value: bson.D{{Key: e.field + ".$", Value: item}}}}
	res, err := r.collection(e.coll).UpdateOne(ctx, filter, update)
	return requireMatch(res, err, e.item, itemID)
}

func (r *Repository) pullItem(ctx context.Context, e embedded, userID, ownerID, itemID string) error {
	filter := append(owned(userID, ownerID), bson.E{Key: e.field + ".id", Value: itemID})
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: e.field, Value: bson.D{{Key: "id", Value: itemID}}}}}}
	res, err := r.collection(e.coll).UpdateOne(ctx, filter, update)
	return requireMatch(res, err, e.item, itemID)
}
