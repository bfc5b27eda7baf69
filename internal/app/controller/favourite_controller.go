package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopline/shop-backend/internal/app/service"
	apperrors "github.com/shopline/shop-backend/internal/errors"
	"github.com/shopline/shop-backend/internal/middleware"
	"github.com/shopline/shop-backend/internal/storage"
	"github.com/shopline/shop-backend/pkg/metrics"
)

const (
	FavouritesPath = "/fav"

	msgFavouriteNotFound = "Favourite item not found or permission denied."
)

type FavouriteController struct {
	favouriteService service.FavouriteService
	views            viewBuilder
}

func NewFavouriteController(favouriteService service.FavouriteService, images storage.ImageResolver) *FavouriteController {
	return &FavouriteController{
		favouriteService: favouriteService,
		views:            viewBuilder{images: images},
	}
}

type AddToFavouriteRequest struct {
	ProductID FlexibleInt `json:"product_id" binding:"required,gt=0"`
}

// GetFavourites shows the signed-in user's favourites
// GET /fav, GET /favviewpage
func (ctrl *FavouriteController) GetFavourites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	summary, err := ctrl.favouriteService.ListFavourites(userID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.Redirect(http.StatusFound, middleware.LoginPath)
			return
		}
		log.Error("Failed to fetch favourites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c)
		return
	}

	renderPage(c, http.StatusOK, gin.H{
		"favourites":  ctrl.views.favourites(c.Request.Context(), summary.Entries),
		"total_price": summary.TotalPrice,
	})
}

// AddToFavourite marks a product as a favourite
// POST /add-to-favourite (AJAX)
func (ctrl *FavouriteController) AddToFavourite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	if !isAjaxPost(c) {
		log.Warn("Add to favourite called without AJAX POST", map[string]interface{}{
			"method": c.Request.Method,
			"code":   apperrors.ValidationInvalidRequest,
		})
		metrics.FavouriteAdditions.WithLabelValues(metrics.ResultInvalid).Inc()
		apperrors.InvalidRequest(c)
		return
	}

	var req AddToFavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to favourite request", map[string]interface{}{
			"user_id": userID,
			"code":    apperrors.ValidationInvalidInput,
			"error":   err.Error(),
		})
		metrics.FavouriteAdditions.WithLabelValues(metrics.ResultInvalid).Inc()
		apperrors.InvalidRequest(c)
		return
	}

	_, err := ctrl.favouriteService.AddToFavourite(userID, uint(req.ProductID))
	switch {
	case err == nil:
		metrics.FavouriteAdditions.WithLabelValues(metrics.ResultSuccess).Inc()
		apperrors.RespondWithStatus(c, http.StatusOK, apperrors.StatusAddedToFavourite)
	case errors.Is(err, service.ErrUnauthorized):
		log.Warn("Add to favourite without a user", map[string]interface{}{
			"code": apperrors.AuthUnauthorized,
		})
		metrics.FavouriteAdditions.WithLabelValues(metrics.ResultUnauthorized).Inc()
		apperrors.Unauthorized(c)
	case errors.Is(err, service.ErrProductNotFound):
		log.Warn("Add to favourite rejected: product not found", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"code":       apperrors.CatalogProductNotFound,
		})
		metrics.FavouriteAdditions.WithLabelValues(metrics.ResultNotFound).Inc()
		apperrors.NotFound(c, apperrors.StatusProductNotFound)
	default:
		log.Error("Failed to add to favourites", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"code":       apperrors.ParseError(err, "add to favourites").Code,
		})
		metrics.FavouriteAdditions.WithLabelValues(metrics.ResultError).Inc()
		apperrors.InternalError(c)
	}
}

// RemoveFavourite deletes one of the user's favourites
// GET /fav/remove/:id
func (ctrl *FavouriteController) RemoveFavourite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	favouriteID, ok := parseIDParam(c, "id")
	if !ok {
		log.Warn("Invalid favourite id", map[string]interface{}{
			"user_id": userID,
			"id":      c.Param("id"),
			"code":    apperrors.ValidationInvalidID,
		})
		metrics.FavouriteRemovals.WithLabelValues(metrics.ResultInvalid).Inc()
		redirectWithFlash(c, middleware.FlashError, msgFavouriteNotFound, FavouritesPath)
		return
	}

	err := ctrl.favouriteService.RemoveFavourite(userID, favouriteID)
	switch {
	case err == nil:
		metrics.FavouriteRemovals.WithLabelValues(metrics.ResultSuccess).Inc()
		c.Redirect(http.StatusFound, FavouritesPath)
	case errors.Is(err, service.ErrUnauthorized):
		log.Warn("Favourite removal without a user", map[string]interface{}{
			"code": apperrors.AuthUnauthorized,
		})
		c.Redirect(http.StatusFound, middleware.LoginPath)
	case errors.Is(err, service.ErrFavouriteNotFound):
		log.Warn("Favourite not found for user", map[string]interface{}{
			"user_id":      userID,
			"favourite_id": favouriteID,
			"code":         apperrors.FavouriteNotFound,
		})
		metrics.FavouriteRemovals.WithLabelValues(metrics.ResultNotFound).Inc()
		redirectWithFlash(c, middleware.FlashError, msgFavouriteNotFound, FavouritesPath)
	default:
		log.Error("Failed to remove favourite", err, map[string]interface{}{
			"user_id":      userID,
			"favourite_id": favouriteID,
			"code":         apperrors.ParseError(err, "remove favourite").Code,
		})
		metrics.FavouriteRemovals.WithLabelValues(metrics.ResultError).Inc()
		apperrors.InternalError(c)
	}
}
