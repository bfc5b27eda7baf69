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
	CartPath = "/cart"

	msgCartLineNotFound = "Cart item not found or you don't have permission to delete it."
)

type CartController struct {
	cartService service.CartService
	views       viewBuilder
}

func NewCartController(cartService service.CartService, images storage.ImageResolver) *CartController {
	return &CartController{
		cartService: cartService,
		views:       viewBuilder{images: images},
	}
}

type AddToCartRequest struct {
	ProductID  FlexibleInt  `json:"product_id" binding:"required,gt=0"`
	ProductQty *FlexibleInt `json:"product_qty"`
}

// GetCart shows the signed-in user's cart
// GET /cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	summary, err := ctrl.cartService.ListCart(userID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.Redirect(http.StatusFound, middleware.LoginPath)
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c)
		return
	}

	renderPage(c, http.StatusOK, gin.H{
		"cart":        ctrl.views.cartLines(c.Request.Context(), summary.Lines),
		"total_price": summary.TotalPrice,
	})
}

// AddToCart adds a product to the cart
// POST /addtocart (AJAX)
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	if !isAjaxPost(c) {
		log.Warn("Add to cart called without AJAX POST", map[string]interface{}{
			"method": c.Request.Method,
			"code":   apperrors.ValidationInvalidRequest,
		})
		metrics.CartAdditions.WithLabelValues(metrics.ResultInvalid).Inc()
		apperrors.InvalidRequest(c)
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"code":    apperrors.ValidationInvalidInput,
			"error":   err.Error(),
		})
		metrics.CartAdditions.WithLabelValues(metrics.ResultInvalid).Inc()
		apperrors.InvalidRequest(c)
		return
	}

	quantity := 1
	if req.ProductQty != nil {
		quantity = int(*req.ProductQty)
	}

	_, err := ctrl.cartService.AddToCart(userID, uint(req.ProductID), quantity)
	switch {
	case err == nil:
		metrics.CartAdditions.WithLabelValues(metrics.ResultSuccess).Inc()
		apperrors.RespondWithStatus(c, http.StatusOK, apperrors.StatusAddedToCart)
	case errors.Is(err, service.ErrUnauthorized):
		log.Warn("Add to cart without a user", map[string]interface{}{
			"code": apperrors.AuthUnauthorized,
		})
		metrics.CartAdditions.WithLabelValues(metrics.ResultUnauthorized).Inc()
		apperrors.Unauthorized(c)
	case errors.Is(err, service.ErrInvalidQuantity):
		log.Warn("Add to cart rejected: invalid quantity", map[string]interface{}{
			"user_id":  userID,
			"quantity": quantity,
			"code":     apperrors.ValidationInvalidInput,
		})
		metrics.CartAdditions.WithLabelValues(metrics.ResultInvalid).Inc()
		apperrors.InvalidRequest(c)
	case errors.Is(err, service.ErrProductNotFound):
		log.Warn("Add to cart rejected: product not found", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"code":       apperrors.CatalogProductNotFound,
		})
		metrics.CartAdditions.WithLabelValues(metrics.ResultNotFound).Inc()
		apperrors.NotFound(c, apperrors.StatusProductNotFound)
	case errors.Is(err, service.ErrInsufficientStock):
		log.Warn("Add to cart rejected: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"quantity":   quantity,
			"code":       apperrors.CartInsufficientStock,
		})
		metrics.CartAdditions.WithLabelValues(metrics.ResultInsufficientStock).Inc()
		apperrors.RespondWithStatus(c, http.StatusBadRequest, apperrors.StatusInsufficientStock)
	default:
		log.Error("Failed to add to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"code":       apperrors.ParseError(err, "add to cart").Code,
		})
		metrics.CartAdditions.WithLabelValues(metrics.ResultError).Inc()
		apperrors.InternalError(c)
	}
}

// RemoveCartLine deletes one of the user's cart lines
// GET /remove_cart/:id
func (ctrl *CartController) RemoveCartLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	lineID, ok := parseIDParam(c, "id")
	if !ok {
		log.Warn("Invalid cart line id", map[string]interface{}{
			"user_id": userID,
			"id":      c.Param("id"),
			"code":    apperrors.ValidationInvalidID,
		})
		metrics.CartRemovals.WithLabelValues(metrics.ResultInvalid).Inc()
		redirectWithFlash(c, middleware.FlashError, msgCartLineNotFound, CartPath)
		return
	}

	err := ctrl.cartService.RemoveCartLine(userID, lineID)
	switch {
	case err == nil:
		metrics.CartRemovals.WithLabelValues(metrics.ResultSuccess).Inc()
		c.Redirect(http.StatusFound, CartPath)
	case errors.Is(err, service.ErrUnauthorized):
		log.Warn("Cart line removal without a user", map[string]interface{}{
			"code": apperrors.AuthUnauthorized,
		})
		c.Redirect(http.StatusFound, middleware.LoginPath)
	case errors.Is(err, service.ErrCartLineNotFound):
		log.Warn("Cart line not found for user", map[string]interface{}{
			"user_id":      userID,
			"cart_line_id": lineID,
			"code":         apperrors.CartLineNotFound,
		})
		metrics.CartRemovals.WithLabelValues(metrics.ResultNotFound).Inc()
		redirectWithFlash(c, middleware.FlashError, msgCartLineNotFound, CartPath)
	default:
		log.Error("Failed to remove cart line", err, map[string]interface{}{
			"user_id":      userID,
			"cart_line_id": lineID,
			"code":         apperrors.ParseError(err, "remove cart line").Code,
		})
		metrics.CartRemovals.WithLabelValues(metrics.ResultError).Inc()
		apperrors.InternalError(c)
	}
}
