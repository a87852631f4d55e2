package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// TransactionFilter bounds a ledger listing by date, inclusive, as YYYY-MM-DD.
type TransactionFilter struct {
	From string
	To   string
}

func transactionFilter(userID string, f TransactionFilter) bson.D {
	filter := bson.D{{Key: "user_id", Value: userID}}
	date := bson.M{}
	if f.From != "" {
		date["$gte"] = f.From
	}
	if f.To != "" {
		date["$lte"] = f.To
	}
	if len(date) > 0 {
		filter = append(filter, bson.E{Key: "date", Value: date})
	}
	return filter
}

// ListTransactions returns the user's transactions, most recent date first.
func (r *Repository) ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := r.collection(transactionsCollection).Find(ctx, transactionFilter(userID, f), opts)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return decodeAll[models.Transaction](ctx, cur)
}

// GetTransaction loads one transaction of the user.
func (r *Repository) GetTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	var tx models.Transaction
	err := r.collection(transactionsCollection).FindOne(ctx, owned(userID, id)).Decode(&tx)
	if err != nil {
		return models.Transaction{}, notFound(err, "transaction", id)
	}
	return tx, nil
}

// InsertTransaction stores a new transaction.
func (r *Repository) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	if _, err := r.collection(transactionsCollection).InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction replaces the editable fields of a transaction.
func (r *Repository) UpdateTransaction(ctx context.Context, tx models.Transaction) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "type", Value: tx.Type},
		{Key: "amount", Value: tx.Amount},
		{Key: "category", Value: tx.Category},
		{Key: "date", Value: tx.Date},
		{Key: "description", Value: tx.Description},
	}}}
	res, err := r.collection(transactionsCollection).UpdateOne(ctx, owned(tx.UserID, tx.ID), update)
	return requireMatch(res, err, "transaction", tx.ID)
}

// DeleteTransaction removes a transaction.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.collection(transactionsCollection).DeleteOne(ctx, owned(userID, id))
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	return nil
}
