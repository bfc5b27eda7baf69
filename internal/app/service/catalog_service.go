package service

import (
	"errors"

	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

// CatalogService serves the storefront's read-only view of the catalog.
// Hidden categories and products are treated as absent.
type CatalogService interface {
	ListVisibleCategories() ([]model.Category, error)
	ListTrendingProducts() ([]model.Product, error)
	ListProductsInCategory(categoryName string) (*model.Category, []model.Product, error)
	GetProductDetail(categoryName, productName string) (*model.Product, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogService) ListVisibleCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindVisible()
	if err != nil {
		logger.Error("Failed to list visible categories", err)
		return nil, err
	}
	return categories, nil
}

func (s *catalogService) ListTrendingProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindTrending()
	if err != nil {
		logger.Error("Failed to list trending products", err)
		return nil, err
	}
	return products, nil
}

func (s *catalogService) ListProductsInCategory(categoryName string) (*model.Category, []model.Product, error) {
	category, err := s.findVisibleCategory(categoryName)
	if err != nil {
		return nil, nil, err
	}

	products, err := s.productRepo.FindVisibleByCategory(category.ID)
	if err != nil {
		logger.Error("Failed to list products in category", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return nil, nil, err
	}

	logger.Debug("Products in category listed", map[string]interface{}{
		"category": categoryName,
		"count":    len(products),
	})
	return category, products, nil
}

func (s *catalogService) GetProductDetail(categoryName, productName string) (*model.Product, error) {
	category, err := s.findVisibleCategory(categoryName)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindVisibleByName(category.ID, productName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found in category", map[string]interface{}{
				"category": categoryName,
				"product":  productName,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product detail", err, map[string]interface{}{
			"category": categoryName,
			"product":  productName,
		})
		return nil, err
	}
	return product, nil
}

func (s *catalogService) findVisibleCategory(name string) (*model.Category, error) {
	category, err := s.categoryRepo.FindVisibleByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found", map[string]interface{}{
				"category": name,
			})
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"category": name,
		})
		return nil, err
	}
	return category, nil
}
