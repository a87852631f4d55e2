package profile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

type fakeStore struct {
	profiles map[string]models.Breeder
	err      error
}

func (f *fakeStore) GetProfile(_ context.Context, userID string) (models.Breeder, error) {
	if f.err != nil {
		return models.Breeder{}, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return models.Breeder{}, fmt.Errorf("profile %s: %w", userID, models.ErrNotFound)
	}
	return p, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, p models.Breeder) error {
	f.profiles[p.ID] = p
	return nil
}

func TestGetFallsBackToEmptyProfile(t *testing.T) {
	svc := NewService(&fakeStore{profiles: map[string]models.Breeder{}}, nil)

	p, err := svc.Get(context.Background(), "u1", "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.Breeder{ID: "u1", Email: "me@example.com"}, p)
}

func TestGetPropagatesStoreErrors(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("down")}, nil)
	_, err := svc.Get(context.Background(), "u1", "")
	assert.EqualError(t, err, "down")
}

func TestSave(t *testing.T) {
	store := &fakeStore{profiles: map[string]models.Breeder{}}
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	p, err := svc.Save(context.Background(), "u1", "token@example.com", models.ProfileInput{Name: " Solar Aviary ", City: "Campinas", RegistryNumber: "55920"})
	require.NoError(t, err)
	assert.Equal(t, "Solar Aviary", p.Name)
	assert.Equal(t, "token@example.com", p.Email)
	assert.Equal(t, p, store.profiles["u1"])

	p, err = svc.Save(context.Background(), "u1", "token@example.com", models.ProfileInput{Name: "Solar", Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "other@example.com", p.Email)
	assert.Empty(t, store.profiles["u1"].City)

	_, err = svc.Save(context.Background(), "u1", "", models.ProfileInput{Name: "  "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
