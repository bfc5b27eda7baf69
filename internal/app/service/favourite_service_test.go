package service

import (
	"testing"

	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFavouriteServiceTest(t *testing.T) (FavouriteService, *model.User, *model.Product, *gorm.DB) {
	testDB := setupServiceTestDB(t)

	favouriteService := NewFavouriteService(
		repository.NewFavouriteRepository(testDB),
		repository.NewProductRepository(testDB),
	)

	user := createTestUser(t, testDB, "alice")
	snacks := createTestCategory(t, testDB, "Snacks", false)
	chips := createTestProduct(t, testDB, snacks, "Chips", 10, 2.50)

	return favouriteService, user, chips, testDB
}

func TestFavouriteService_AddToFavourite_Idempotent(t *testing.T) {
	favouriteService, user, chips, _ := setupFavouriteServiceTest(t)

	first, err := favouriteService.AddToFavourite(user.ID, chips.ID)
	require.NoError(t, err)
	second, err := favouriteService.AddToFavourite(user.ID, chips.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	summary, err := favouriteService.ListFavourites(user.ID)
	require.NoError(t, err)
	require.Len(t, summary.Entries, 1)
	assert.Equal(t, "Chips", summary.Entries[0].Product.Name)
	assert.InDelta(t, 2.50, summary.TotalPrice, 0.001)
}

func TestFavouriteService_AddToFavourite_Errors(t *testing.T) {
	favouriteService, user, chips, _ := setupFavouriteServiceTest(t)

	_, err := favouriteService.AddToFavourite(0, chips.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = favouriteService.AddToFavourite(user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)

	summary, err := favouriteService.ListFavourites(user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Entries)
}

func TestFavouriteService_ListFavourites_TotalsSellingPrices(t *testing.T) {
	favouriteService, user, chips, testDB := setupFavouriteServiceTest(t)
	drinks := createTestCategory(t, testDB, "Beverages", false)
	cola := createTestProduct(t, testDB, drinks, "Cola", 40, 1.20)

	_, err := favouriteService.AddToFavourite(user.ID, chips.ID)
	require.NoError(t, err)
	_, err = favouriteService.AddToFavourite(user.ID, cola.ID)
	require.NoError(t, err)

	summary, err := favouriteService.ListFavourites(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Entries, 2)
	assert.InDelta(t, 3.70, summary.TotalPrice, 0.001)

	_, err = favouriteService.ListFavourites(0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFavouriteService_RemoveFavourite(t *testing.T) {
	favouriteService, alice, chips, testDB := setupFavouriteServiceTest(t)
	bob := createTestUser(t, testDB, "bob")

	entry, err := favouriteService.AddToFavourite(alice.ID, chips.ID)
	require.NoError(t, err)

	err = favouriteService.RemoveFavourite(bob.ID, entry.ID)
	assert.ErrorIs(t, err, ErrFavouriteNotFound)

	summary, err := favouriteService.ListFavourites(alice.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Entries, 1)

	require.NoError(t, favouriteService.RemoveFavourite(alice.ID, entry.ID))

	summary, err = favouriteService.ListFavourites(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Entries)

	assert.ErrorIs(t, favouriteService.RemoveFavourite(alice.ID, entry.ID), ErrFavouriteNotFound)
	assert.ErrorIs(t, favouriteService.RemoveFavourite(0, entry.ID), ErrUnauthorized)
}
