package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopline/shop-backend/internal/app/service"
	apperrors "github.com/shopline/shop-backend/internal/errors"
	"github.com/shopline/shop-backend/internal/middleware"
	"github.com/shopline/shop-backend/internal/storage"
)

const CollectionsPath = "/collections"

// Flash texts for catalog lookups that miss.
const (
	msgNoSuchCategory       = "No such category found."
	msgNoSuchCategoryDetail = "No Such Category Found."
	msgNoSuchProduct        = "No Such Product Found."
)

type CatalogController struct {
	catalogService service.CatalogService
	views          viewBuilder
}

func NewCatalogController(catalogService service.CatalogService, images storage.ImageResolver) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		views:          viewBuilder{images: images},
	}
}

// Home lists trending products
// GET /
func (ctrl *CatalogController) Home(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.catalogService.ListTrendingProducts()
	if err != nil {
		log.Error("Failed to list trending products", err)
		apperrors.InternalError(c)
		return
	}

	renderPage(c, http.StatusOK, gin.H{
		"products": ctrl.views.products(c.Request.Context(), products),
	})
}

// Collections lists visible categories
// GET /collections
func (ctrl *CatalogController) Collections(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.ListVisibleCategories()
	if err != nil {
		log.Error("Failed to list categories", err)
		apperrors.InternalError(c)
		return
	}

	renderPage(c, http.StatusOK, gin.H{
		"categories": ctrl.views.categories(c.Request.Context(), categories),
	})
}

// CollectionView lists the visible products of one category
// GET /collections/:category
func (ctrl *CatalogController) CollectionView(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	name := c.Param("category")

	category, products, err := ctrl.catalogService.ListProductsInCategory(name)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			log.Warn("Category page requested for unknown category", map[string]interface{}{
				"category": name,
				"code":     apperrors.CatalogCategoryNotFound,
			})
			redirectWithFlash(c, middleware.FlashWarning, msgNoSuchCategory, CollectionsPath)
			return
		}
		log.Error("Failed to list products in category", err, map[string]interface{}{
			"category": name,
		})
		apperrors.InternalError(c)
		return
	}

	ctx := c.Request.Context()
	renderPage(c, http.StatusOK, gin.H{
		"category":      ctrl.views.category(ctx, *category),
		"category_name": name,
		"products":      ctrl.views.products(ctx, products),
	})
}

// ProductDetail shows one product
// GET /collections/:category/:product
func (ctrl *CatalogController) ProductDetail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	categoryName := c.Param("category")
	productName := c.Param("product")

	product, err := ctrl.catalogService.GetProductDetail(categoryName, productName)
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		log.Warn("Product page requested for unknown category", map[string]interface{}{
			"category": categoryName,
			"code":     apperrors.CatalogCategoryNotFound,
		})
		redirectWithFlash(c, middleware.FlashWarning, msgNoSuchCategoryDetail, CollectionsPath)
		return
	case errors.Is(err, service.ErrProductNotFound):
		log.Warn("Product page requested for unknown product", map[string]interface{}{
			"category": categoryName,
			"product":  productName,
			"code":     apperrors.CatalogProductNotFound,
		})
		redirectWithFlash(c, middleware.FlashWarning, msgNoSuchProduct, CollectionsPath)
		return
	case err != nil:
		log.Error("Failed to fetch product detail", err, map[string]interface{}{
			"category": categoryName,
			"product":  productName,
		})
		apperrors.InternalError(c)
		return
	}

	renderPage(c, http.StatusOK, gin.H{
		"product": ctrl.views.product(c.Request.Context(), *product),
	})
}
