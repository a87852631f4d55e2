// Package birds manages a breeder's registry: bird records, their parent
// references, history entries and weight measurements.
package birds

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
	ListBirds(ctx context.Context, userID string, f mongodb.BirdFilter) ([]models.Bird, error)
	GetBird(ctx context.Context, userID, id string) (models.Bird, error)
	InsertBird(ctx context.Context, bird models.Bird) error
	UpdateBird(ctx context.Context, bird models.Bird) error
	DeleteBird(ctx context.Context, userID, id string) error
	SetBirdStatus(ctx context.Context, userID, id string, status models.BirdStatus) error
	SetParent(ctx context.Context, userID, id string, role models.ParentRole, parentID string) error

	AddBirdLog(ctx context.Context, userID, birdID string, entry models.BirdLog) error
	UpdateBirdLog(ctx context.Context, userID, birdID string, entry models.BirdLog) error
	DeleteBirdLog(ctx context.Context, userID, birdID, logID string) error
	AddBirdWeight(ctx context.Context, userID, birdID string, w models.BirdWeight) error
	UpdateBirdWeight(ctx context.Context, userID, birdID string, w models.BirdWeight) error
	DeleteBirdWeight(ctx context.Context, userID, birdID, weightID string) error
}

// Service implements the bird registry operations.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs a bird service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns the user's birds, newest first, optionally filtered by a
// search on name, ring number and species.
func (s *Service) List(ctx context.Context, userID, query string) ([]models.Bird, error) {
	birds, err := s.store.ListBirds(ctx, userID, mongodb.BirdFilter{Query: query})
	if err != nil {
		return nil, err
	}
	for i := range birds {
		sortHistory(&birds[i])
	}
	return birds, nil
}

// Get loads one bird with its history sorted newest first.
func (s *Service) Get(ctx context.Context, userID, id string) (models.Bird, error) {
	bird, err := s.store.GetBird(ctx, userID, id)
	if err != nil {
		return models.Bird{}, err
	}
	sortHistory(&bird)
	return bird, nil
}

// Create validates and stores a new bird. Parent references must point at
// birds of the registry carrying the role's gender.
func (s *Service) Create(ctx context.Context, userID string, in models.BirdInput) (models.Bird, error) {
	if err := in.Validate(); err != nil {
		return models.Bird{}, err
	}

	now := s.now().UTC()
	bird := fromInput(in)
	bird.ID = s.newID()
	bird.UserID = userID
	bird.Logs = []models.BirdLog{}
	bird.Weights = []models.BirdWeight{}
	bird.CreatedAt = now
	bird.UpdatedAt = now

	for _, role := range []models.ParentRole{models.RoleFather, models.RoleMother} {
		if err := s.checkParent(ctx, userID, bird.ID, role, bird.ParentID(role)); err != nil {
			return models.Bird{}, err
		}
	}

	if err := s.store.InsertBird(ctx, bird); err != nil {
		return models.Bird{}, err
	}
	s.logger.Info("bird created", zap.String("user_id", userID), zap.String("bird_id", bird.ID), zap.String("ring", bird.RingNumber))
	return bird, nil
}

// Update replaces the editable fields of a bird. Only parent references that
// change are checked, so a reference left dangling by a deletion survives
// unrelated edits.
func (s *Service) Update(ctx context.Context, userID, id string, in models.BirdInput) (models.Bird, error) {
	if err := in.Validate(); err != nil {
		return models.Bird{}, err
	}

	current, err := s.store.GetBird(ctx, userID, id)
	if err != nil {
		return models.Bird{}, err
	}

	bird := fromInput(in)
	bird.ID = current.ID
	bird.UserID = userID
	bird.Logs = current.Logs
	bird.Weights = current.Weights
	bird.CreatedAt = current.CreatedAt
	bird.UpdatedAt = s.now().UTC()

	for _, role := range []models.ParentRole{models.RoleFather, models.RoleMother} {
		next := bird.ParentID(role)
		if next == current.ParentID(role) {
			continue
		}
		if err := s.checkParent(ctx, userID, id, role, next); err != nil {
			return models.Bird{}, err
		}
	}

	if err := s.store.UpdateBird(ctx, bird); err != nil {
		return models.Bird{}, err
	}
	sortHistory(&bird)
	return bird, nil
}

// Delete removes a bird. Birds referencing it as a parent keep the reference,
// which then resolves as an external record.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteBird(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("bird deleted", zap.String("user_id", userID), zap.String("bird_id", id))
	return nil
}

// SetStatus changes only the lifecycle status.
func (s *Service) SetStatus(ctx context.Context, userID, id string, status models.BirdStatus) error {
	if !status.Valid() {
		return models.Invalid("status", "unknown value %q", status)
	}
	return s.store.SetBirdStatus(ctx, userID, id, status)
}

// SetParent attaches parentID as the father or mother of bird id.
func (s *Service) SetParent(ctx context.Context, userID, id string, role models.ParentRole, parentID string) error {
	if _, err := lineage.RoleGender(role); err != nil {
		return err
	}
	if strings.TrimSpace(parentID) == "" {
		return models.Invalid("parentId", "must be provided")
	}
	if _, err := s.store.GetBird(ctx, userID, id); err != nil {
		return err
	}
	if err := s.checkParent(ctx, userID, id, role, parentID); err != nil {
		return err
	}
	return s.store.SetParent(ctx, userID, id, role, parentID)
}

// ClearParent removes the father or mother reference of bird id.
func (s *Service) ClearParent(ctx context.Context, userID, id string, role models.ParentRole) error {
	if _, err := lineage.RoleGender(role); err != nil {
		return err
	}
	return s.store.SetParent(ctx, userID, id, role, "")
}

// Candidates lists the birds eligible as the role's parent of bird
// excludeID, narrowed by an optional search query.
func (s *Service) Candidates(ctx context.Context, userID, excludeID string, role models.ParentRole, query string) ([]models.Bird, error) {
	gender, err := lineage.RoleGender(role)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListBirds(ctx, userID, mongodb.BirdFilter{})
	if err != nil {
		return nil, err
	}
	return lineage.Search(lineage.Candidates(all, excludeID, gender), query), nil
}

// checkParent enforces the rules for a newly assigned parent reference.
func (s *Service) checkParent(ctx context.Context, userID, childID string, role models.ParentRole, parentID string) error {
	if parentID == "" {
		return nil
	}
	field := strings.ToLower(string(role)) + "Id"
	if parentID == childID {
		return models.Invalid(field, "a bird cannot be its own parent")
	}

	parent, err := s.store.GetBird(ctx, userID, parentID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Invalid(field, "bird %s is not in the registry", parentID)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", strings.ToLower(string(role)), err)
	}

	want, err := lineage.RoleGender(role)
	if err != nil {
		return err
	}
	if parent.Gender != want {
		return models.Invalid(field, "%s must be %s, %s is %s", strings.ToLower(string(role)), want, parent.Name, parent.Gender)
	}
	return nil
}

// AddLog records a history entry on a bird.
func (s *Service) AddLog(ctx context.Context, userID, birdID string, in models.LogInput) (models.BirdLog, error) {
	if err := in.Validate(); err != nil {
		return models.BirdLog{}, err
	}
	entry := logFromInput(s.newID(), in)
	if err := s.store.AddBirdLog(ctx, userID, birdID, entry); err != nil {
		return models.BirdLog{}, err
	}
	return entry, nil
}

// UpdateLog replaces a history entry.
func (s *Service) UpdateLog(ctx context.Context, userID, birdID, logID string, in models.LogInput) (models.BirdLog, error) {
	if err := in.Validate(); err != nil {
		return models.BirdLog{}, err
	}
	entry := logFromInput(logID, in)
	if err := s.store.UpdateBirdLog(ctx, userID, birdID, entry); err != nil {
		return models.BirdLog{}, err
	}
	return entry, nil
}

// DeleteLog removes a history entry.
func (s *Service) DeleteLog(ctx context.Context, userID, birdID, logID string) error {
	return s.store.DeleteBirdLog(ctx, userID, birdID, logID)
}

// AddWeight records a measurement on a bird.
func (s *Service) AddWeight(ctx context.Context, userID, birdID string, in models.WeightInput) (models.BirdWeight, error) {
	if err := in.Validate(); err != nil {
		return models.BirdWeight{}, err
	}
	w := models.BirdWeight{ID: s.newID(), Date: in.Date, Weight: in.Weight, Height: in.Height}
	if err := s.store.AddBirdWeight(ctx, userID, birdID, w); err != nil {
		return models.BirdWeight{}, err
	}
	return w, nil
}

// UpdateWeight replaces a measurement.
func (s *Service) UpdateWeight(ctx context.Context, userID, birdID, weightID string, in models.WeightInput) (models.BirdWeight, error) {
	if err := in.Validate(); err != nil {
		return models.BirdWeight{}, err
	}
	w := models.BirdWeight{ID: weightID, Date: in.Date, Weight: in.Weight, Height: in.Height}
	if err := s.store.UpdateBirdWeight(ctx, userID, birdID, w); err != nil {
		return models.BirdWeight{}, err
	}
	return w, nil
}

// DeleteWeight removes a measurement.
func (s *Service) DeleteWeight(ctx context.Context, userID, birdID, weightID string) error {
	return s.store.DeleteBirdWeight(ctx, userID, birdID, weightID)
}

func fromInput(in models.BirdInput) models.Bird {
	return models.Bird{
		Name:       strings.TrimSpace(in.Name),
		RingNumber: strings.TrimSpace(in.RingNumber),
		Species:    strings.TrimSpace(in.Species),
		Mutation:   in.Mutation,
		Gender:     in.Gender,
		BirthDate:  in.BirthDate,
		Status:     in.Status,
		Cage:       in.Cage,
		FatherID:   strings.TrimSpace(in.FatherID),
		MotherID:   strings.TrimSpace(in.MotherID),
		PhotoURL:   in.PhotoURL,
		Notes:      in.Notes,
	}
}

func logFromInput(id string, in models.LogInput) models.BirdLog {
	icon := in.Icon
	if icon == "" {
		icon = in.Type.DefaultIcon()
	}
	return models.BirdLog{ID: id, Type: in.Type, Date: in.Date, Title: strings.TrimSpace(in.Title), Notes: in.Notes, Icon: icon}
}

// sortHistory orders logs and weights by date, newest first. Entries on the
// same day keep the most recently added first.
func sortHistory(b *models.Bird) {
	slices.Reverse(b.Logs)
	slices.SortStableFunc(b.Logs, func(x, y models.BirdLog) int { return cmp.Compare(y.Date, x.Date) })
	slices.Reverse(b.Weights)
	slices.SortStableFunc(b.Weights, func(x, y models.BirdWeight) int { return cmp.Compare(y.Date, x.Date) })
}
