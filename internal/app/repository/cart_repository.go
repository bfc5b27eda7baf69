package repository

import (
	"time"

	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	// AddQuantity inserts the line or adds quantity to the existing
	// (user, product) line in one statement.
	AddQuantity(userID, productID uint, quantity int) (*model.CartLine, error)
	FindByUserID(userID uint) ([]model.CartLine, error)
	FindByUserAndProduct(userID, productID uint) (*model.CartLine, error)
	// DeleteOwned reports whether a line with that id belonged to the user.
	DeleteOwned(userID, lineID uint) (bool, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) AddQuantity(userID, productID uint, quantity int) (*model.CartLine, error) {
	logger.Debug("Upserting cart line in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	line := &model.CartLine{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}

	err := r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_lines.quantity + excluded.quantity"),
				"updated_at": time.Now(),
			}),
		}).
		Create(line).Error
	if err != nil {
		logger.Error("Failed to upsert cart line in database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return nil, err
	}

	stored, err := r.FindByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}

	logger.Debug("Cart line upserted in database", map[string]interface{}{
		"cart_line_id": stored.ID,
		"user_id":      userID,
		"product_id":   productID,
		"quantity":     stored.Quantity,
	})
	return stored, nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartLine, error) {
	logger.Debug("Finding cart lines by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var lines []model.CartLine
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Preload("Product.Category").
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		logger.Error("Failed to find cart lines by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart lines found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(lines),
	})
	return lines, nil
}

func (r *cartRepository) FindByUserAndProduct(userID, productID uint) (*model.CartLine, error) {
	var line model.CartLine
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Preload("Product").
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) DeleteOwned(userID, lineID uint) (bool, error) {
	logger.Debug("Deleting cart line from database", map[string]interface{}{
		"user_id":      userID,
		"cart_line_id": lineID,
	})

	result := r.db.Where("id = ? AND user_id = ?", lineID, userID).Delete(&model.CartLine{})
	if result.Error != nil {
		logger.Error("Failed to delete cart line from database", result.Error, map[string]interface{}{
			"user_id":      userID,
			"cart_line_id": lineID,
		})
		return false, result.Error
	}

	logger.Debug("Cart line delete executed", map[string]interface{}{
		"user_id":       userID,
		"cart_line_id":  lineID,
		"rows_affected": result.RowsAffected,
	})
	return result.RowsAffected > 0, nil
}
