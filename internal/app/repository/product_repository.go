package repository

import (
	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	CategoryID   *uint
	Name         string
	VisibleOnly  bool
	TrendingOnly bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	Save(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindTrending() ([]model.Product, error)
	FindVisibleByCategory(categoryID uint) ([]model.Product, error)
	FindVisibleByName(categoryID uint, name string) (*model.Product, error)
	FindByCategoryAndName(categoryID uint, name string) (*model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
	})

	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":        product.Name,
			"category_id": product.CategoryID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) Save(product *model.Product) error {
	logger.Debug("Saving product in database", map[string]interface{}{
		"product_id":  product.ID,
		"name":        product.Name,
		"category_id": product.CategoryID,
	})

	if err := r.db.Omit(clause.Associations).Save(product).Error; err != nil {
		logger.Error("Failed to save product in database", err, map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	return r.FindWithFilter(ProductFilter{})
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id":   filter.CategoryID,
		"name":          filter.Name,
		"visible_only":  filter.VisibleOnly,
		"trending_only": filter.TrendingOnly,
	})

	query := r.db.Model(&model.Product{}).Preload("Category")

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.Name != "" {
		query = query.Where("products.name = ?", filter.Name)
	}
	if filter.VisibleOnly {
		query = query.Where("products.hidden = ?", false)
	}
	if filter.TrendingOnly {
		query = query.Where("products.trending = ?", true)
	}

	var products []model.Product
	if err := query.Order("products.id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"category_id": filter.CategoryID,
			"name":        filter.Name,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.db.Preload("Category").First(&product, id).Error
	if err != nil {
		logger.Debug("Product not found by ID in database", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.Debug("Product found by ID in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return &product, nil
}

func (r *productRepository) FindTrending() ([]model.Product, error) {
	return r.FindWithFilter(ProductFilter{TrendingOnly: true})
}

func (r *productRepository) FindVisibleByCategory(categoryID uint) ([]model.Product, error) {
	return r.FindWithFilter(ProductFilter{CategoryID: &categoryID, VisibleOnly: true})
}

func (r *productRepository) FindVisibleByName(categoryID uint, name string) (*model.Product, error) {
	return r.findOne(ProductFilter{CategoryID: &categoryID, Name: name, VisibleOnly: true})
}

func (r *productRepository) FindByCategoryAndName(categoryID uint, name string) (*model.Product, error) {
	return r.findOne(ProductFilter{CategoryID: &categoryID, Name: name})
}

func (r *productRepository) findOne(filter ProductFilter) (*model.Product, error) {
	products, err := r.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &products[0], nil
}
