package birds

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/repository/mongodb"
)

type fakeStore struct {
	birds []models.Bird
}

func (f *fakeStore) find(userID, id string) (int, error) {
	for i, b := range f.birds {
		if b.ID == id && b.UserID == userID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("bird %s: %w", id, models.ErrNotFound)
}

func (f *fakeStore) ListBirds(_ context.Context, userID string, flt mongodb.BirdFilter) ([]models.Bird, error) {
	var out []models.Bird
	for _, b := range f.birds {
		if b.UserID != userID {
			continue
		}
		if q := strings.ToLower(flt.Query); q != "" && !strings.Contains(strings.ToLower(b.Name), q) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) GetBird(_ context.Context, userID, id string) (models.Bird, error) {
	i, err := f.find(userID, id)
	if err != nil {
		return models.Bird{}, err
	}
	b := f.birds[i]
	b.Logs = slices.Clone(b.Logs)
	b.Weights = slices.Clone(b.Weights)
	return b, nil
}

func (f *fakeStore) InsertBird(_ context.Context, b models.Bird) error {
	f.birds = append(f.birds, b)
	return nil
}

func (f *fakeStore) UpdateBird(_ context.Context, b models.Bird) error {
	i, err := f.find(b.UserID, b.ID)
	if err != nil {
		return err
	}
	f.birds[i] = b
	return nil
}

func (f *fakeStore) DeleteBird(_ context.Context, userID, id string) error {
	i, err := f.find(userID, id)
	if err != nil {
		return err
	}
	f.birds = slices.Delete(f.birds, i, i+1)
	return nil
}

func (f *fakeStore) SetBirdStatus(_ context.Context, userID, id string, status models.BirdStatus) error {
	i, err := f.find(userID, id)
	if err != nil {
		return err
	}
	f.birds[i].Status = status
	return nil
}

func (f *fakeStore) SetParent(_ context.Context, userID, id string, role models.ParentRole, parentID string) error {
	i, err := f.find(userID, id)
	if err != nil {
		return err
	}
	if role == models.RoleFather {
		f.birds[i].FatherID = parentID
	} else {
		f.birds[i].MotherID = parentID
	}
	return nil
}

func (f *fakeStore) AddBirdLog(_ context.Context, userID, birdID string, e models.BirdLog) error {
	i, err := f.find(userID, birdID)
	if err != nil {
		return err
	}
	f.birds[i].Logs = append(f.birds[i].Logs, e)
	return nil
}

func (f *fakeStore) UpdateBirdLog(_ context.Context, userID, birdID string, e models.BirdLog) error {
	i, err := f.find(userID, birdID)
	if err != nil {
		return err
	}
	for j := range f.birds[i].Logs {
		if f.birds[i].Logs[j].ID == e.ID {
			f.birds[i].Logs[j] = e
			return nil
		}
	}
	return fmt.Errorf("log %s: %w", e.ID, models.ErrNotFound)
}

func (f *fakeStore) DeleteBirdLog(_ context.Context, userID, birdID, logID string) error {
	i, err := f.find(userID, birdID)
	if err != nil {
		return err
	}
	before := len(f.birds[i].Logs)
	f.birds[i].Logs = slices.DeleteFunc(f.birds[i].Logs, func(l models.BirdLog) bool { return l.ID == logID })
	if len(f.birds[i].Logs) == before {
		return fmt.Errorf("log %s: %w", logID, models.ErrNotFound)
	}
	return nil
}

func (f *fakeStore) AddBirdWeight(_ context.Context, userID, birdID string, w models.BirdWeight) error {
	i, err := f.find(userID, birdID)
	if err != nil {
		return err
	}
	f.birds[i].Weights = append(f.birds[i].Weights, w)
	return nil
}

func (f *fakeStore) UpdateBirdWeight(_ context.Context, userID, birdID string, w models.BirdWeight) error {
	i, err := f.find(userID, birdID)
	if err != nil {
		return err
	}
	for j := range f.birds[i].Weights {
		if f.birds[i].Weights[j].ID == w.ID {
			f.birds[i].Weights[j] = w
			return nil
		}
	}
	return fmt.Errorf("weight %s: %w", w.ID, models.ErrNotFound)
}

func (f *fakeStore) DeleteBirdWeight(_ context.Context, userID, birdID, weightID string) error {
	i, err := f.find(userID, birdID)
	if err != nil {
		return err
	}
	f.birds[i].Weights = slices.DeleteFunc(f.birds[i].Weights, func(w models.BirdWeight) bool { return w.ID == weightID })
	return nil
}

const user = "user-1"

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(birds ...models.Bird) (*Service, *fakeStore) {
	store := &fakeStore{birds: birds}
	svc := NewService(store, nil)
	svc.now = func() time.Time { return fixedNow }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
	return svc, store
}

func registry() []models.Bird {
	return []models.Bird{
		{ID: "zeus", UserID: user, Name: "Zeus", Gender: models.GenderMale},
		{ID: "hera", UserID: user, Name: "Hera", Gender: models.GenderFemale},
		{ID: "thor", UserID: user, Name: "Thor", Gender: models.GenderMale},
		{ID: "odin", UserID: "user-2", Name: "Odin", Gender: models.GenderMale},
	}
}

func birdInput() models.BirdInput {
	return models.BirdInput{
		Name:       "Chick 01",
		RingNumber: "BR-2024-001",
		Species:    "Agapornis",
		Gender:     models.GenderUndetermined,
		BirthDate:  "2024-04-01",
		Status:     models.BirdAvailable,
	}
}

func TestCreate(t *testing.T) {
	svc, store := newTestService(registry()...)

	in := birdInput()
	in.FatherID = "zeus"
	in.MotherID = "hera"
	bird, err := svc.Create(context.Background(), user, in)
	require.NoError(t, err)

	assert.Equal(t, "new-1", bird.ID)
	assert.Equal(t, user, bird.UserID)
	assert.Equal(t, fixedNow, bird.CreatedAt)
	assert.NotNil(t, bird.Logs)
	assert.Len(t, store.birds, 5)
}

func TestCreateRejectsBadParents(t *testing.T) {
	tests := []struct {
		name   string
		father string
		mother string
	}{
		{name: "unknown father", father: "ghost"},
		{name: "father is female", father: "hera"},
		{name: "mother is male", mother: "thor"},
		{name: "father of another breeder", father: "odin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(registry()...)
			in := birdInput()
			in.FatherID = tt.father
			in.MotherID = tt.mother

			_, err := svc.Create(context.Background(), user, in)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
			assert.Len(t, store.birds, 4)
		})
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _ := newTestService()
	in := birdInput()
	in.BirthDate = "01/04/2024"

	_, err := svc.Create(context.Background(), user, in)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateKeepsDanglingReferenceAndHistory(t *testing.T) {
	chick := models.Bird{
		ID: "chick", UserID: user, Name: "Chick", Gender: models.GenderFemale,
		FatherID:  "deleted-bird",
		Logs:      []models.BirdLog{{ID: "l1", Date: "2024-04-02"}},
		CreatedAt: fixedNow.Add(-time.Hour),
	}
	svc, store := newTestService(append(registry(), chick)...)

	in := birdInput()
	in.Name = "Chick renamed"
	in.FatherID = "deleted-bird"
	in.MotherID = "hera"
	bird, err := svc.Update(context.Background(), user, "chick", in)
	require.NoError(t, err)

	assert.Equal(t, "deleted-bird", bird.FatherID)
	assert.Equal(t, "hera", bird.MotherID)
	assert.Equal(t, chick.CreatedAt, bird.CreatedAt)
	assert.Equal(t, fixedNow, bird.UpdatedAt)
	assert.Len(t, bird.Logs, 1)

	stored, _ := store.GetBird(context.Background(), user, "chick")
	assert.Equal(t, "Chick renamed", stored.Name)
}

func TestUpdateRejectsSelfParent(t *testing.T) {
	svc, _ := newTestService(registry()...)
	in := birdInput()
	in.Gender = models.GenderMale
	in.FatherID = "zeus"

	_, err := svc.Update(context.Background(), user, "zeus", in)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.ErrorContains(t, err, "own parent")
}

func TestUpdateMissingBird(t *testing.T) {
	svc, _ := newTestService(registry()...)
	_, err := svc.Update(context.Background(), user, "odin", birdInput())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetAndClearParent(t *testing.T) {
	chick := models.Bird{ID: "chick", UserID: user, Name: "Chick"}
	svc, store := newTestService(append(registry(), chick)...)
	ctx := context.Background()

	require.NoError(t, svc.SetParent(ctx, user, "chick", models.RoleFather, "zeus"))
	assert.Equal(t, "zeus", store.birds[4].FatherID)

	err := svc.SetParent(ctx, user, "chick", models.RoleMother, "zeus")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	err = svc.SetParent(ctx, user, "chick", models.RoleFather, "chick")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	err = svc.SetParent(ctx, user, "missing", models.RoleFather, "zeus")
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = svc.SetParent(ctx, user, "chick", models.RoleSelf, "zeus")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	require.NoError(t, svc.ClearParent(ctx, user, "chick", models.RoleFather))
	assert.Empty(t, store.birds[4].FatherID)
}

func TestCandidates(t *testing.T) {
	svc, _ := newTestService(registry()...)
	ctx := context.Background()

	fathers, err := svc.Candidates(ctx, user, "thor", models.RoleFather, "")
	require.NoError(t, err)
	require.Len(t, fathers, 1)
	assert.Equal(t, "zeus", fathers[0].ID)

	mothers, err := svc.Candidates(ctx, user, "thor", models.RoleMother, "HE")
	require.NoError(t, err)
	require.Len(t, mothers, 1)
	assert.Equal(t, "hera", mothers[0].ID)

	none, err := svc.Candidates(ctx, user, "thor", models.RoleMother, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.Candidates(ctx, user, "thor", models.RoleSelf, "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSetStatus(t *testing.T) {
	svc, store := newTestService(registry()...)
	ctx := context.Background()

	require.NoError(t, svc.SetStatus(ctx, user, "zeus", models.BirdSold))
	assert.Equal(t, models.BirdSold, store.birds[0].Status)

	assert.ErrorIs(t, svc.SetStatus(ctx, user, "zeus", "LOST"), models.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetStatus(ctx, user, "odin", models.BirdSold), models.ErrNotFound)
}

func TestDeleteLeavesChildrenReference(t *testing.T) {
	chick := models.Bird{ID: "chick", UserID: user, Name: "Chick", FatherID: "zeus"}
	svc, _ := newTestService(append(registry(), chick)...)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, user, "zeus"))
	got, err := svc.Get(ctx, user, "chick")
	require.NoError(t, err)
	assert.Equal(t, "zeus", got.FatherID)

	assert.ErrorIs(t, svc.Delete(ctx, user, "zeus"), models.ErrNotFound)
}

func TestLogs(t *testing.T) {
	svc, _ := newTestService(registry()...)
	ctx := context.Background()

	first, err := svc.AddLog(ctx, user, "zeus", models.LogInput{Type: models.LogHealth, Date: "2024-05-01", Title: "Vaccine"})
	require.NoError(t, err)
	assert.Equal(t, "💊", first.Icon)

	_, err = svc.AddLog(ctx, user, "zeus", models.LogInput{Type: models.LogFeeding, Date: "2024-05-03", Title: "Seeds", Icon: "🌻"})
	require.NoError(t, err)

	bird, err := svc.Get(ctx, user, "zeus")
	require.NoError(t, err)
	require.Len(t, bird.Logs, 2)
	assert.Equal(t, "Seeds", bird.Logs[0].Title)

	updated, err := svc.UpdateLog(ctx, user, "zeus", first.ID, models.LogInput{Type: models.LogHealth, Date: "2024-05-01", Title: "Booster"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)

	_, err = svc.UpdateLog(ctx, user, "zeus", "nope", models.LogInput{Type: models.LogHealth, Date: "2024-05-01", Title: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.AddLog(ctx, user, "zeus", models.LogInput{Type: "SLEEP", Date: "2024-05-01", Title: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	require.NoError(t, svc.DeleteLog(ctx, user, "zeus", first.ID))
	assert.ErrorIs(t, svc.DeleteLog(ctx, user, "zeus", first.ID), models.ErrNotFound)
}

func TestWeights(t *testing.T) {
	svc, _ := newTestService(registry()...)
	ctx := context.Background()
	height := 12.5

	w, err := svc.AddWeight(ctx, user, "hera", models.WeightInput{Date: "2024-03-01", Weight: 48})
	require.NoError(t, err)
	_, err = svc.AddWeight(ctx, user, "hera", models.WeightInput{Date: "2024-04-01", Weight: 50, Height: &height})
	require.NoError(t, err)

	bird, err := svc.Get(ctx, user, "hera")
	require.NoError(t, err)
	require.Len(t, bird.Weights, 2)
	assert.Equal(t, "2024-04-01", bird.Weights[0].Date)
	assert.Equal(t, &height, bird.Weights[0].Height)

	_, err = svc.UpdateWeight(ctx, user, "hera", w.ID, models.WeightInput{Date: "2024-03-01", Weight: 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	require.NoError(t, svc.DeleteWeight(ctx, user, "hera", w.ID))
}

func TestSortHistoryNewestFirst(t *testing.T) {
	b := models.Bird{Logs: []models.BirdLog{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-02-01"},
		{ID: "c", Date: "2024-01-01"},
	}}
	sortHistory(&b)

	var got []string
	for _, l := range b.Logs {
		got = append(got, l.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, got)
}
