// Package dashboard computes the headline counters of the home screen.
package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/repository/mongodb"
)

// Store is the persistence the service needs.
type Store interface {
	CountBirds(ctx context.Context, userID string, f mongodb.BirdFilter) (int, error)
	CountPairs(ctx context.Context, userID string) (int, error)
	HatchedInProgress(ctx context.Context, userID string) (int, error)
}

// Service aggregates dashboard counters.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService constructs a dashboard service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Stats counts the birds still in the aviary, the pairs, the chicks hatched
// in running cycles and the birds available for sale.
func (s *Service) Stats(ctx context.Context, userID string) (models.DashboardStats, error) {
	var stats models.DashboardStats
	var err error

	stats.TotalBirds, err = s.store.CountBirds(ctx, userID, mongodb.BirdFilter{
		ExcludeStatuses: []models.BirdStatus{models.BirdSold, models.BirdDeceased},
	})
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count birds: %w", err)
	}

	stats.TotalPairs, err = s.store.CountPairs(ctx, userID)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count pairs: %w", err)
	}

	stats.ActiveChicks, err = s.store.HatchedInProgress(ctx, userID)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count chicks: %w", err)
	}

	stats.AvailableForSale, err = s.store.CountBirds(ctx, userID, mongodb.BirdFilter{
		Statuses: []models.BirdStatus{models.BirdAvailable},
	})
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count available birds: %w", err)
	}

	s.logger.Debug("dashboard computed", zap.String("user_id", userID), zap.Any("stats", stats))
	return stats, nil
}
