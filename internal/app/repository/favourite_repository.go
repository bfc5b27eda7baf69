package repository

import (
	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavouriteRepository interface {
	// CreateIfAbsent returns the stored entry and whether this call inserted it.
	CreateIfAbsent(userID, productID uint) (*model.FavouriteEntry, bool, error)
	FindByUserID(userID uint) ([]model.FavouriteEntry, error)
	FindByUserAndProduct(userID, productID uint) (*model.FavouriteEntry, error)
	DeleteOwned(userID, entryID uint) (bool, error)
}

type favouriteRepository struct {
	db *gorm.DB
}

func NewFavouriteRepository(db *gorm.DB) FavouriteRepository {
	return &favouriteRepository{db: db}
}

func (r *favouriteRepository) CreateIfAbsent(userID, productID uint) (*model.FavouriteEntry, bool, error) {
	logger.Debug("Adding favourite entry in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	entry := &model.FavouriteEntry{UserID: userID, ProductID: productID}
	result := r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		logger.Error("Failed to add favourite entry in database", result.Error, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, false, result.Error
	}
	created := result.RowsAffected > 0

	// ID is not populated when the insert was skipped.
	stored, err := r.FindByUserAndProduct(userID, productID)
	if err != nil {
		return nil, false, err
	}

	logger.Debug("Favourite entry stored in database", map[string]interface{}{
		"favourite_id": stored.ID,
		"user_id":      userID,
		"product_id":   productID,
		"created":      created,
	})
	return stored, created, nil
}

func (r *favouriteRepository) FindByUserID(userID uint) ([]model.FavouriteEntry, error) {
	logger.Debug("Finding favourite entries by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var entries []model.FavouriteEntry
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Preload("Product.Category").
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		logger.Error("Failed to find favourite entries by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return entries, nil
}

func (r *favouriteRepository) FindByUserAndProduct(userID, productID uint) (*model.FavouriteEntry, error) {
	var entry model.FavouriteEntry
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Preload("Product").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *favouriteRepository) DeleteOwned(userID, entryID uint) (bool, error) {
	logger.Debug("Deleting favourite entry from database", map[string]interface{}{
		"user_id":      userID,
		"favourite_id": entryID,
	})

	result := r.db.Where("id = ? AND user_id = ?", entryID, userID).Delete(&model.FavouriteEntry{})
	if result.Error != nil {
		logger.Error("Failed to delete favourite entry from database", result.Error, map[string]interface{}{
			"user_id":      userID,
			"favourite_id": entryID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
