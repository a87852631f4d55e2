// Package profile manages the breeder profile printed on pedigree documents.
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

// Store is the persistence the service needs.
type Store interface {
	GetProfile(ctx context.Context, userID string) (models.Breeder, error)
	UpsertProfile(ctx context.Context, profile models.Breeder) error
}

// Service reads and writes breeder profiles.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a profile service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Get returns the profile of userID. A user who never saved one gets an
// empty profile carrying the token email.
func (s *Service) Get(ctx context.Context, userID, email string) (models.Breeder, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Breeder{ID: userID, Email: email}, nil
	}
	if err != nil {
		return models.Breeder{}, err
	}
	return p, nil
}

// Save creates or replaces the profile of userID. An empty email falls back
// to the token email.
func (s *Service) Save(ctx context.Context, userID, email string, in models.ProfileInput) (models.Breeder, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Breeder{}, models.Invalid("name", "must be provided")
	}
	if strings.TrimSpace(in.Email) != "" {
		email = strings.TrimSpace(in.Email)
	}

	p := models.Breeder{
		ID:             userID,
		Name:           name,
		Email:          email,
		RegistryNumber: strings.TrimSpace(in.RegistryNumber),
		Phone:          strings.TrimSpace(in.Phone),
		City:           strings.TrimSpace(in.City),
		PhotoURL:       in.PhotoURL,
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return models.Breeder{}, err
	}
	s.logger.Info("profile saved", zap.String("user_id", userID))
	return p, nil
}
