package controller

import (
	"net/http"
	"testing"

	"github.com/shopline/shop-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func seedCatalog(t *testing.T, env *testEnv) {
	snacks := env.createCategory(t, "Snacks", false)
	env.createCategory(t, "Beverages", false)
	seasonal := env.createCategory(t, "Seasonal", true)

	chips := env.createProduct(t, snacks, "Chips", 10, 2.50)
	require.NoError(t, env.db.Model(chips).Omit(clause.Associations).Updates(map[string]interface{}{
		"trending":      true,
		"product_image": "products/chips.png",
	}).Error)
	env.createProduct(t, snacks, "Peanuts", 25, 3.20)
	env.createProduct(t, seasonal, "Pumpkin Mix", 5, 6.50)
}

func TestCatalogController_Home(t *testing.T) {
	env := setupControllerTest(t)
	seedCatalog(t, env)

	w := env.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decodeBody(t, w)
	products := page["products"].([]interface{})
	require.Len(t, products, 1)
	chips := products[0].(map[string]interface{})
	assert.Equal(t, "Chips", chips["name"])
	assert.Equal(t, "/uploads/products/chips.png", chips["image_url"])
	assert.Nil(t, page["user"])
	assert.Empty(t, page["messages"])
}

func TestCatalogController_Collections(t *testing.T) {
	env := setupControllerTest(t)
	seedCatalog(t, env)

	w := env.do(http.MethodGet, "/collections", nil)
	require.Equal(t, http.StatusOK, w.Code)

	categories := decodeBody(t, w)["categories"].([]interface{})
	require.Len(t, categories, 2)
	assert.Equal(t, "Snacks", categories[0].(map[string]interface{})["name"])
	assert.Equal(t, "Beverages", categories[1].(map[string]interface{})["name"])
}

func TestCatalogController_CollectionView(t *testing.T) {
	env := setupControllerTest(t)
	seedCatalog(t, env)

	w := env.do(http.MethodGet, "/collections/Snacks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody(t, w)
	assert.Equal(t, "Snacks", page["category_name"])
	assert.Len(t, page["products"], 2)

	w = env.do(http.MethodGet, "/collections/Beverages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["products"])
}

func TestCatalogController_CollectionView_HiddenCategory(t *testing.T) {
	env := setupControllerTest(t)
	seedCatalog(t, env)

	w := env.do(http.MethodGet, "/collections/Seasonal", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/collections", w.Header().Get("Location"))

	flashes := flashesOf(t, w)
	require.Len(t, flashes, 1)
	assert.Equal(t, middleware.FlashWarning, flashes[0].Level)
	assert.Equal(t, msgNoSuchCategory, flashes[0].Text)

	// The next page shows the message once and clears it.
	w = env.do(http.MethodGet, "/collections", nil, withCookies(w.Result().Cookies()))
	require.Equal(t, http.StatusOK, w.Code)
	messages := decodeBody(t, w)["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, msgNoSuchCategory, messages[0].(map[string]interface{})["text"])
	cleared := cookieOf(w, "shop_flash")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestCatalogController_ProductDetail(t *testing.T) {
	env := setupControllerTest(t)
	seedCatalog(t, env)

	w := env.do(http.MethodGet, "/collections/Snacks/Chips", nil)
	require.Equal(t, http.StatusOK, w.Code)
	product := decodeBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "Chips", product["name"])
	assert.Equal(t, float64(10), product["quantity"])

	tests := []struct {
		name string
		path string
		text string
	}{
		{"unknown product", "/collections/Snacks/Nope", msgNoSuchProduct},
		{"hidden category", "/collections/Seasonal/Pumpkin%20Mix", msgNoSuchCategoryDetail},
		{"unknown category", "/collections/Nope/Chips", msgNoSuchCategoryDetail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/collections", w.Header().Get("Location"))
			flashes := flashesOf(t, w)
			require.Len(t, flashes, 1)
			assert.Equal(t, tt.text, flashes[0].Text)
		})
	}
}
