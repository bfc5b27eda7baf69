package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopline/shop-backend/config"
	"github.com/shopline/shop-backend/internal/app/controller"
	"github.com/shopline/shop-backend/internal/middleware"
	"github.com/shopline/shop-backend/pkg/metrics"
)

type Router struct {
	authController      *controller.AuthController
	catalogController   *controller.CatalogController
	cartController      *controller.CartController
	favouriteController *controller.FavouriteController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	favouriteController *controller.FavouriteController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		catalogController:   catalogController,
		cartController:      cartController,
		favouriteController: favouriteController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if r.config.Metrics.Enabled {
		router.Use(metrics.Middleware())
	}
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Shop API is running",
		})
	})
	if r.config.Metrics.Enabled {
		router.GET("/metrics", metrics.Handler())
	}

	if r.config.S3.Bucket == "" && strings.HasPrefix(r.config.S3.LocalMediaURL, "/") {
		router.Static(r.config.S3.LocalMediaURL, "./uploads")
	}

	site := router.Group("/")
	site.Use(r.authMiddleware.LoadSession())
	{
		site.GET("/", r.catalogController.Home)

		site.GET("/register", r.authController.RegisterPage)
		site.POST("/register", r.authController.Register)
		site.GET("/login", r.authController.LoginPage)
		site.POST("/login", r.authController.Login)
		site.GET("/logout", r.authController.Logout)

		site.GET("/collections", r.catalogController.Collections)
		site.GET("/collections/:category", r.catalogController.CollectionView)
		site.GET("/collections/:category/:product", r.catalogController.ProductDetail)

		pages := site.Group("/")
		pages.Use(r.authMiddleware.RedirectAnonymous())
		{
			pages.GET("/cart", r.cartController.GetCart)
			pages.GET("/remove_cart/:id", r.cartController.RemoveCartLine)
			pages.GET("/fav", r.favouriteController.GetFavourites)
			pages.GET("/favviewpage", r.favouriteController.GetFavourites)
			pages.GET("/fav/remove/:id", r.favouriteController.RemoveFavourite)
		}

		// Method and AJAX checks happen in the handlers so that anonymous
		// callers get 401 before any 400.
		ajax := site.Group("/")
		ajax.Use(r.authMiddleware.RequireLogin())
		{
			ajax.Any("/addtocart", r.cartController.AddToCart)
			ajax.Any("/add-to-favourite", r.favouriteController.AddToFavourite)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
