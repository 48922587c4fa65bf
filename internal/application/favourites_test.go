package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/user-service/internal/domain/entity"
)

func repoWithFavourites(places ...string) *fakeRepo {
	repo := newFakeRepo()
	repo.users["U1"] = &entity.User{
		ID:              "U1",
		Email:           "a@x.com",
		FavouritePlaces: append([]string{}, places...),
		Version:         1,
	}
	return repo
}

func TestAddFavourite_Appends(t *testing.T) {
	repo := repoWithFavourites("Paris")
	svc := newTestService(repo, &fakeProvider{}, &fakeAssets{})

	places, err := svc.AddFavourite(context.Background(), "U1", "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Tokyo"}, places)

	stored, _ := repo.GetByID(context.Background(), "U1")
	assert.Equal(t, []string{"Paris", "Tokyo"}, stored.FavouritePlaces)
}

func TestAddFavourite_CapacityExceeded(t *testing.T) {
	repo := repoWithFavourites("Paris", "Tokyo", "Rome", "Cairo", "Lima")
	svc := newTestService(repo, &fakeProvider{}, &fakeAssets{})

	_, err := svc.AddFavourite(context.Background(), "U1", "Oslo")
	require.ErrorIs(t, err, ErrCapacityExceeded)

	stored, _ := repo.GetByID(context.Background(), "U1")
	assert.Equal(t, []string{"Paris", "Tokyo", "Rome", "Cairo", "Lima"}, stored.FavouritePlaces)
}

func TestAddFavourite_Duplicate(t *testing.T) {
	repo := repoWithFavourites("Paris", "Tokyo")
	svc := newTestService(repo, &fakeProvider{}, &fakeAssets{})

	_, err := svc.AddFavourite(context.Background(), "U1", "Paris")
	require.ErrorIs(t, err, ErrDuplicateEntry)

	stored, _ := repo.GetByID(context.Background(), "U1")
	assert.Equal(t, []string{"Paris", "Tokyo"}, stored.FavouritePlaces)
}

func TestAddFavourite_EmptyCity(t *testing.T) {
	svc := newTestService(repoWithFavourites(), &fakeProvider{}, &fakeAssets{})
	_, err := svc.AddFavourite(context.Background(), "U1", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddFavourite_UnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeProvider{}, &fakeAssets{})
	_, err := svc.AddFavourite(context.Background(), "ghost", "Paris")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddFavourite_RetriesOnVersionConflict(t *testing.T) {
	repo := repoWithFavourites("Paris")
	repo.conflictsLeft = 2
	svc := newTestService(repo, &fakeProvider{}, &fakeAssets{})

	places, err := svc.AddFavourite(context.Background(), "U1", "Tokyo")
	require.NoError(t, err)
	assert.Contains(t, places, "Tokyo")
	assert.Equal(t, 3, repo.updateCalls)
}

func TestAddFavourite_GivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := repoWithFavourites("Paris")
	repo.conflictsLeft = 10
	svc := newTestService(repo, &fakeProvider{}, &fakeAssets{})

	_, err := svc.AddFavourite(context.Background(), "U1", "Tokyo")
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestRemoveFavourite_PreservesOrder(t *testing.T) {
	repo := repoWithFavourites("Paris", "Tokyo", "Rome")
	svc := newTestService(repo, &fakeProvider{}, &fakeAssets{})

	places, err := svc.RemoveFavourite(context.Background(), "U1", "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Rome"}, places)
}

func TestRemoveFavourite_AbsentIsNoOpSuccess(t *testing.T) {
	repo := repoWithFavourites("Paris")
	svc := newTestService(repo, &fakeProvider{}, &fakeAssets{})

	places, err := svc.RemoveFavourite(context.Background(), "U1", "Oslo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, places)
	// tolerant policy: the unchanged list is still persisted
	assert.Equal(t, 1, repo.updateCalls)
}

func TestRemoveFavourite_UnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeProvider{}, &fakeAssets{})
	_, err := svc.RemoveFavourite(context.Background(), "ghost", "Paris")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavourites_AddThenRemoveRoundTrip(t *testing.T) {
	repo := repoWithFavourites("Rome", "Cairo")
	svc := newTestService(repo, &fakeProvider{}, &fakeAssets{})

	_, err := svc.AddFavourite(context.Background(), "U1", "Paris")
	require.NoError(t, err)
	places, err := svc.RemoveFavourite(context.Background(), "U1", "Paris")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rome", "Cairo"}, places)
}
