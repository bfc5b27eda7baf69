package controller

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/internal/app/service"
	"github.com/shopline/shop-backend/internal/db"
	"github.com/shopline/shop-backend/internal/middleware"
	"github.com/shopline/shop-backend/internal/storage"
	"github.com/shopline/shop-backend/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	testJWTSecret  = "test-secret"
	testCookieName = "shop_session"
	testPassword   = "s3cret-pass"
)

// memorySessions stands in for the Redis session blacklist.
type memorySessions struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memorySessions) BlacklistToken(_ context.Context, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token] = true
	return nil
}

func (m *memorySessions) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[token], nil
}

type testEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	authService service.AuthService
	sessions    *memorySessions
}

func setupControllerTest(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	sessions := &memorySessions{revoked: map[string]bool{}}
	images := storage.NewLocalResolver("/uploads")
	cookie := middleware.SessionCookie{Name: testCookieName}

	userRepo := repository.NewUserRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	authService := service.NewAuthService(userRepo, sessions, testJWTSecret, 15*time.Minute)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	cartService := service.NewCartService(repository.NewCartRepository(testDB), productRepo, service.StockPolicyRequested)
	favouriteService := service.NewFavouriteService(repository.NewFavouriteRepository(testDB), productRepo)

	authCtrl := NewAuthController(authService, cookie)
	catalogCtrl := NewCatalogController(catalogService, images)
	cartCtrl := NewCartController(cartService, images)
	favouriteCtrl := NewFavouriteController(favouriteService, images)
	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret, cookie, authService, sessions)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(authMiddleware.LoadSession())

	router.GET("/", catalogCtrl.Home)
	router.GET("/register", authCtrl.RegisterPage)
	router.POST("/register", authCtrl.Register)
	router.GET("/login", authCtrl.LoginPage)
	router.POST("/login", authCtrl.Login)
	router.GET("/logout", authCtrl.Logout)
	router.GET("/collections", catalogCtrl.Collections)
	router.GET("/collections/:category", catalogCtrl.CollectionView)
	router.GET("/collections/:category/:product", catalogCtrl.ProductDetail)

	pages := router.Group("/", authMiddleware.RedirectAnonymous())
	pages.GET("/cart", cartCtrl.GetCart)
	pages.GET("/remove_cart/:id", cartCtrl.RemoveCartLine)
	pages.GET("/fav", favouriteCtrl.GetFavourites)
	pages.GET("/fav/remove/:id", favouriteCtrl.RemoveFavourite)

	ajax := router.Group("/", authMiddleware.RequireLogin())
	ajax.Any("/addtocart", cartCtrl.AddToCart)
	ajax.Any("/add-to-favourite", favouriteCtrl.AddToFavourite)

	return &testEnv{
		router:      router,
		db:          testDB,
		authService: authService,
		sessions:    sessions,
	}
}

// signIn registers a user and returns its session token.
func (e *testEnv) signIn(t *testing.T, username string) (*model.User, string) {
	user, err := e.authService.Register(service.RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password1: testPassword,
		Password2: testPassword,
	})
	require.NoError(t, err)

	_, session, err := e.authService.Login(username, testPassword)
	require.NoError(t, err)
	return user, session.Token
}

func (e *testEnv) createCategory(t *testing.T, name string, hidden bool) *model.Category {
	category := &model.Category{Name: name, Hidden: hidden}
	require.NoError(t, e.db.Create(category).Error)
	return category
}

func (e *testEnv) createProduct(t *testing.T, category *model.Category, name string, stock int, price float64) *model.Product {
	product := &model.Product{
		CategoryID:    category.ID,
		Name:          name,
		Vendor:        "Crunchy Co",
		Quantity:      stock,
		OriginalPrice: price,
		SellingPrice:  price,
	}
	require.NoError(t, e.db.Omit(clause.Associations).Create(product).Error)
	return product
}

type requestOption func(r *http.Request)

func withSession(token string) requestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
}

func withCookies(cookies []*http.Cookie) requestOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			if c.Value != "" {
				r.AddCookie(c)
			}
		}
	}
}

func asAjax() requestOption {
	return func(r *http.Request) {
		r.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
}

func (e *testEnv) do(method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case url.Values:
		req = httptest.NewRequest(method, path, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	case string:
		req = httptest.NewRequest(method, path, strings.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		data, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func statusOf(t *testing.T, w *httptest.ResponseRecorder) string {
	status, _ := decodeBody(t, w)["status"].(string)
	return status
}

// flashesOf decodes the flash cookie set by the response.
func flashesOf(t *testing.T, w *httptest.ResponseRecorder) []middleware.FlashMessage {
	for _, c := range w.Result().Cookies() {
		if c.Name != "shop_flash" || c.Value == "" {
			continue
		}
		data, err := base64.RawURLEncoding.DecodeString(c.Value)
		require.NoError(t, err)
		var messages []middleware.FlashMessage
		require.NoError(t, json.Unmarshal(data, &messages))
		return messages
	}
	return nil
}

func cookieOf(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// captureLogs routes JSON logs into a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() {
		logger.Initialize(logger.Config{Level: "info", Format: "console"})
	})
	return &buf
}
