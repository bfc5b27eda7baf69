package repository

import (
	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	Save(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindVisible() ([]model.Category, error)
	FindByName(name string) (*model.Category, error)
	FindVisibleByName(name string) (*model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name":   category.Name,
		"hidden": category.Hidden,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return nil
}

func (r *categoryRepository) Save(category *model.Category) error {
	logger.Debug("Saving category in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})

	if err := r.db.Omit("Products").Save(category).Error; err != nil {
		logger.Error("Failed to save category in database", err, map[string]interface{}{
			"category_id": category.ID,
			"name":        category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("id ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories in database", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindVisible() ([]model.Category, error) {
	logger.Debug("Finding visible categories in database")

	var categories []model.Category
	err := r.db.Where("hidden = ?", false).
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to find visible categories in database", err)
		return nil, err
	}

	logger.Debug("Visible categories found in database", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("name = ?", name).Order("id ASC").First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindVisibleByName(name string) (*model.Category, error) {
	logger.Debug("Finding visible category by name in database", map[string]interface{}{
		"name": name,
	})

	var category model.Category
	err := r.db.Where("name = ? AND hidden = ?", name, false).
		Order("id ASC").
		First(&category).Error
	if err != nil {
		logger.Debug("Visible category not found in database", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return nil, err
	}

	logger.Debug("Visible category found in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return &category, nil
}
