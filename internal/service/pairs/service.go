// Package pairs manages breeding pairs and their laying cycles.
package pairs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/lineage"
	"github.com/mamadbah2/birdo/internal/repository/mongodb"
)

// Store is the persistence the service needs.
type Store interface {
	ListPairs(ctx context.Context, userID string) ([]models.BreedingPair, error)
	GetPair(ctx context.Context, userID, id string) (models.BreedingPair, error)
	InsertPair(ctx context.Context, pair models.BreedingPair) error
	UpdatePair(ctx context.Context, pair models.BreedingPair) error
	DeletePair(ctx context.Context, userID, id string) error
	SetPairStatus(ctx context.Context, userID, id string, status models.PairStatus) error
	AddCycle(ctx context.Context, userID, pairID string, c models.BreedingCycle) error
	UpdateCycle(ctx context.Context, userID, pairID string, c models.BreedingCycle) error
	DeleteCycle(ctx context.Context, userID, pairID, cycleID string) error

	ListBirds(ctx context.Context, userID string, f mongodb.BirdFilter) ([]models.Bird, error)
	GetBird(ctx context.Context, userID, id string) (models.Bird, error)
}

// Service implements the breeding pair operations.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs a pair service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now, newID: uuid.NewString}
}

// List returns the user's pairs with partner names resolved. A partner that
// is no longer in the registry is listed without a name.
func (s *Service) List(ctx context.Context, userID string) ([]models.PairView, error) {
	pairs, err := s.store.ListPairs(ctx, userID)
	if err != nil {
		return nil, err
	}
	birds, err := s.store.ListBirds(ctx, userID, mongodb.BirdFilter{})
	if err != nil {
		return nil, err
	}
	reg, err := lineage.NewRegistry(birds)
	if err != nil {
		return nil, err
	}

	views := make([]models.PairView, 0, len(pairs))
	for _, p := range pairs {
		sortCycles(p.Cycles)
		views = append(views, view(p, reg))
	}
	return views, nil
}

// Get loads one pair with partner names and cycles newest first.
func (s *Service) Get(ctx context.Context, userID, id string) (models.PairView, error) {
	pair, err := s.store.GetPair(ctx, userID, id)
	if err != nil {
		return models.PairView{}, err
	}
	sortCycles(pair.Cycles)

	v := models.PairView{BreedingPair: pair}
	if v.MaleName, err = s.partnerName(ctx, userID, pair.MaleID); err != nil {
		return models.PairView{}, err
	}
	if v.FemaleName, err = s.partnerName(ctx, userID, pair.FemaleID); err != nil {
		return models.PairView{}, err
	}
	return v, nil
}

// partnerName is empty when the partner was deleted.
func (s *Service) partnerName(ctx context.Context, userID, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	b, err := s.store.GetBird(ctx, userID, id)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load partner %s: %w", id, err)
	}
	return b.Name, nil
}

// Create validates and stores a new pair.
func (s *Service) Create(ctx context.Context, userID string, in models.PairInput) (models.BreedingPair, error) {
	if err := in.Validate(); err != nil {
		return models.BreedingPair{}, err
	}
	if err := s.checkPartners(ctx, userID, in.MaleID, in.FemaleID); err != nil {
		return models.BreedingPair{}, err
	}

	now := s.now().UTC()
	pair := models.BreedingPair{
		ID:        s.newID(),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		MaleID:    in.MaleID,
		FemaleID:  in.FemaleID,
		StartDate: in.StartDate,
		Status:    in.Status,
		Cage:      in.Cage,
		Cycles:    []models.BreedingCycle{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertPair(ctx, pair); err != nil {
		return models.BreedingPair{}, err
	}
	s.logger.Info("pair created", zap.String("user_id", userID), zap.String("pair_id", pair.ID))
	return pair, nil
}

// Update replaces the editable fields of a pair. Partners are only checked
// when they change.
func (s *Service) Update(ctx context.Context, userID, id string, in models.PairInput) (models.BreedingPair, error) {
	if err := in.Validate(); err != nil {
		return models.BreedingPair{}, err
	}
	current, err := s.store.GetPair(ctx, userID, id)
	if err != nil {
		return models.BreedingPair{}, err
	}

	male, female := in.MaleID, in.FemaleID
	if male == current.MaleID {
		male = ""
	}
	if female == current.FemaleID {
		female = ""
	}
	if err := s.checkPartners(ctx, userID, male, female); err != nil {
		return models.BreedingPair{}, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.MaleID = in.MaleID
	current.FemaleID = in.FemaleID
	current.StartDate = in.StartDate
	current.Status = in.Status
	current.Cage = in.Cage
	current.UpdatedAt = s.now().UTC()

	if err := s.store.UpdatePair(ctx, current); err != nil {
		return models.BreedingPair{}, err
	}
	sortCycles(current.Cycles)
	return current, nil
}

// Delete removes a pair and its cycles.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.store.DeletePair(ctx, userID, id)
}

// SetStatus changes only the status of a pair.
func (s *Service) SetStatus(ctx context.Context, userID, id string, status models.PairStatus) error {
	if !status.Valid() {
		return models.Invalid("status", "unknown value %q", status)
	}
	return s.store.SetPairStatus(ctx, userID, id, status)
}

// Candidates lists the birds that can be chosen as the male or female partner.
func (s *Service) Candidates(ctx context.Context, userID string, gender models.Gender, query string) ([]models.Bird, error) {
	if gender != models.GenderMale && gender != models.GenderFemale {
		return nil, models.Invalid("gender", "expected MALE or FEMALE, got %q", gender)
	}
	birds, err := s.store.ListBirds(ctx, userID, mongodb.BirdFilter{})
	if err != nil {
		return nil, err
	}
	return lineage.Search(lineage.Candidates(birds, "", gender), query), nil
}

// checkPartners verifies the partners that are being assigned. Empty ids are skipped.
func (s *Service) checkPartners(ctx context.Context, userID, maleID, femaleID string) error {
	for _, p := range []struct {
		field  string
		id     string
		gender models.Gender
	}{
		{"maleId", maleID, models.GenderMale},
		{"femaleId", femaleID, models.GenderFemale},
	} {
		if p.id == "" {
			continue
		}
		bird, err := s.store.GetBird(ctx, userID, p.id)
		if errors.Is(err, models.ErrNotFound) {
			return models.Invalid(p.field, "bird %s is not in the registry", p.id)
		}
		if err != nil {
			return fmt.Errorf("load partner %s: %w", p.id, err)
		}
		if bird.Gender != p.gender {
			return models.Invalid(p.field, "%s is %s, expected %s", bird.Name, bird.Gender, p.gender)
		}
	}
	return nil
}

// AddCycle records a new breeding cycle on a pair.
func (s *Service) AddCycle(ctx context.Context, userID, pairID string, in models.CycleInput) (models.BreedingCycle, error) {
	if err := in.Validate(); err != nil {
		return models.BreedingCycle{}, err
	}
	c := cycleFromInput(s.newID(), in)
	s.warnCounts(userID, pairID, c)
	if err := s.store.AddCycle(ctx, userID, pairID, c); err != nil {
		return models.BreedingCycle{}, err
	}
	return c, nil
}

// UpdateCycle replaces a breeding cycle.
func (s *Service) UpdateCycle(ctx context.Context, userID, pairID, cycleID string, in models.CycleInput) (models.BreedingCycle, error) {
	if err := in.Validate(); err != nil {
		return models.BreedingCycle{}, err
	}
	c := cycleFromInput(cycleID, in)
	s.warnCounts(userID, pairID, c)
	if err := s.store.UpdateCycle(ctx, userID, pairID, c); err != nil {
		return models.BreedingCycle{}, err
	}
	return c, nil
}

// DeleteCycle removes a breeding cycle.
func (s *Service) DeleteCycle(ctx context.Context, userID, pairID, cycleID string) error {
	return s.store.DeleteCycle(ctx, userID, pairID, cycleID)
}

// warnCounts flags more hatchlings than eggs. The record is still saved.
func (s *Service) warnCounts(userID, pairID string, c models.BreedingCycle) {
	if c.HatchedCount > c.EggsCount {
		s.logger.Warn("cycle hatched more chicks than eggs laid",
			zap.String("user_id", userID),
			zap.String("pair_id", pairID),
			zap.String("cycle_id", c.ID),
			zap.Int("eggs", c.EggsCount),
			zap.Int("hatched", c.HatchedCount),
		)
	}
}

func cycleFromInput(id string, in models.CycleInput) models.BreedingCycle {
	return models.BreedingCycle{
		ID:           id,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		EggsCount:    in.EggsCount,
		HatchedCount: in.HatchedCount,
		Notes:        in.Notes,
		Status:       in.Status,
	}
}

func view(p models.BreedingPair, reg *lineage.Registry) models.PairView {
	v := models.PairView{BreedingPair: p}
	if male, ok := reg.Lookup(p.MaleID); ok {
		v.MaleName = male.Name
	}
	if female, ok := reg.Lookup(p.FemaleID); ok {
		v.FemaleName = female.Name
	}
	return v
}

// sortCycles orders cycles by start date, newest first.
func sortCycles(cycles []models.BreedingCycle) {
	slices.Reverse(cycles)
	slices.SortStableFunc(cycles, func(a, b models.BreedingCycle) int { return cmp.Compare(b.StartDate, a.StartDate) })
}
