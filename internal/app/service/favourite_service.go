package service

import (
	"errors"

	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrFavouriteNotFound = errors.New("favourite not found")

type FavouriteSummary struct {
	Entries    []model.FavouriteEntry
	TotalPrice float64
}

type FavouriteService interface {
	// AddToFavourite is idempotent: a second call returns the existing entry.
	AddToFavourite(userID, productID uint) (*model.FavouriteEntry, error)
	ListFavourites(userID uint) (*FavouriteSummary, error)
	RemoveFavourite(userID, favouriteID uint) error
}

type favouriteService struct {
	favouriteRepo repository.FavouriteRepository
	productRepo   repository.ProductRepository
}

func NewFavouriteService(
	favouriteRepo repository.FavouriteRepository,
	productRepo repository.ProductRepository,
) FavouriteService {
	return &favouriteService{
		favouriteRepo: favouriteRepo,
		productRepo:   productRepo,
	}
}

func (s *favouriteService) AddToFavourite(userID, productID uint) (*model.FavouriteEntry, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to favourites: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	entry, created, err := s.favouriteRepo.CreateIfAbsent(userID, productID)
	if err != nil {
		logger.Error("Failed to add favourite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Product added to favourites", map[string]interface{}{
		"user_id":      userID,
		"product_id":   productID,
		"favourite_id": entry.ID,
		"created":      created,
	})
	return entry, nil
}

func (s *favouriteService) ListFavourites(userID uint) (*FavouriteSummary, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	entries, err := s.favouriteRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch favourites", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	summary := &FavouriteSummary{Entries: entries}
	for _, entry := range entries {
		summary.TotalPrice += entry.Product.SellingPrice
	}
	return summary, nil
}

func (s *favouriteService) RemoveFavourite(userID, favouriteID uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}

	deleted, err := s.favouriteRepo.DeleteOwned(userID, favouriteID)
	if err != nil {
		logger.Error("Failed to remove favourite", err, map[string]interface{}{
			"user_id":      userID,
			"favourite_id": favouriteID,
		})
		return err
	}
	if !deleted {
		logger.Warn("Favourite not found for user", map[string]interface{}{
			"user_id":      userID,
			"favourite_id": favouriteID,
		})
		return ErrFavouriteNotFound
	}
	return nil
}
