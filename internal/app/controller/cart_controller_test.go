package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartController_AddToCart_Anonymous(t *testing.T) {
	env := setupControllerTest(t)
	snacks := env.createCategory(t, "Snacks", false)
	chips := env.createProduct(t, snacks, "Chips", 10, 2.50)

	w := env.do(http.MethodPost, "/addtocart", map[string]interface{}{"product_id": chips.ID}, asAjax())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Login to continue", statusOf(t, w))
}

func TestCartController_DeletedAccountIsAnonymous(t *testing.T) {
	env := setupControllerTest(t)
	user, token := env.signIn(t, "alice")
	snacks := env.createCategory(t, "Snacks", false)
	chips := env.createProduct(t, snacks, "Chips", 10, 2.50)
	require.NoError(t, env.db.Delete(user).Error)

	w := env.do(http.MethodPost, "/addtocart", map[string]interface{}{"product_id": chips.ID}, withSession(token), asAjax())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Login to continue", statusOf(t, w))

	w = env.do(http.MethodGet, "/cart", nil, withSession(token))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	var lines int64
	require.NoError(t, env.db.Model(&model.CartLine{}).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestCartController_AddToCart_RequiresAjaxPost(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.signIn(t, "alice")
	snacks := env.createCategory(t, "Snacks", false)
	chips := env.createProduct(t, snacks, "Chips", 10, 2.50)
	body := map[string]interface{}{"product_id": chips.ID}

	w := env.do(http.MethodPost, "/addtocart", body, withSession(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request", statusOf(t, w))

	w = env.do(http.MethodGet, "/addtocart", nil, withSession(token), asAjax())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request", statusOf(t, w))
}

func TestCartController_AddToCart(t *testing.T) {
	env := setupControllerTest(t)
	user, token := env.signIn(t, "alice")
	snacks := env.createCategory(t, "Snacks", false)
	chips := env.createProduct(t, snacks, "Chips", 10, 2.50)

	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus string
	}{
		{"default quantity", fmt.Sprintf(`{"product_id": %d}`, chips.ID), http.StatusOK, "Product added to cart"},
		{"string fields", fmt.Sprintf(`{"product_id": "%d", "product_qty": "1"}`, chips.ID), http.StatusOK, "Product added to cart"},
		{"insufficient stock", fmt.Sprintf(`{"product_id": %d, "product_qty": 20}`, chips.ID), http.StatusBadRequest, "Insufficient stock"},
		{"unknown product", `{"product_id": 9999, "product_qty": 1}`, http.StatusNotFound, "Product not found"},
		{"zero quantity", fmt.Sprintf(`{"product_id": %d, "product_qty": 0}`, chips.ID), http.StatusBadRequest, "Invalid request"},
		{"missing product", `{"product_qty": 1}`, http.StatusBadRequest, "Invalid request"},
		{"non numeric product", `{"product_id": "chips"}`, http.StatusBadRequest, "Invalid request"},
		{"malformed body", `{"product_id":`, http.StatusBadRequest, "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/addtocart", tt.body, withSession(token), asAjax())
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantStatus, statusOf(t, w))
		})
	}

	var line model.CartLine
	require.NoError(t, env.db.Where("user_id = ? AND product_id = ?", user.ID, chips.ID).First(&line).Error)
	assert.Equal(t, 2, line.Quantity)
}

func TestCartController_GetCart(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.signIn(t, "alice")
	snacks := env.createCategory(t, "Snacks", false)
	chips := env.createProduct(t, snacks, "Chips", 10, 2.50)

	w := env.do(http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	body := map[string]interface{}{"product_id": chips.ID, "product_qty": 2}
	w = env.do(http.MethodPost, "/addtocart", body, withSession(token), asAjax())
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/cart", nil, withSession(token))
	require.Equal(t, http.StatusOK, w.Code)

	page := decodeBody(t, w)
	lines := page["cart"].([]interface{})
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.Equal(t, float64(2), line["quantity"])
	assert.InDelta(t, 5.00, line["total_cost"], 0.001)
	assert.Equal(t, "Chips", line["product"].(map[string]interface{})["name"])
	assert.InDelta(t, 5.00, page["total_price"], 0.001)
	assert.Equal(t, "alice", page["user"].(map[string]interface{})["username"])
}

func TestCartController_RemoveCartLine(t *testing.T) {
	env := setupControllerTest(t)
	_, aliceToken := env.signIn(t, "alice")
	_, bobToken := env.signIn(t, "bob")
	snacks := env.createCategory(t, "Snacks", false)
	chips := env.createProduct(t, snacks, "Chips", 10, 2.50)

	w := env.do(http.MethodPost, "/addtocart", map[string]interface{}{"product_id": chips.ID}, withSession(aliceToken), asAjax())
	require.Equal(t, http.StatusOK, w.Code)

	var line model.CartLine
	require.NoError(t, env.db.First(&line).Error)
	removePath := fmt.Sprintf("/remove_cart/%d", line.ID)

	w = env.do(http.MethodGet, removePath, nil, withSession(bobToken))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))
	flashes := flashesOf(t, w)
	require.Len(t, flashes, 1)
	assert.Equal(t, middleware.FlashError, flashes[0].Level)
	assert.Equal(t, msgCartLineNotFound, flashes[0].Text)

	var count int64
	env.db.Model(&model.CartLine{}).Count(&count)
	assert.Equal(t, int64(1), count)

	w = env.do(http.MethodGet, removePath, nil, withSession(aliceToken))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))
	assert.Empty(t, flashesOf(t, w))

	env.db.Model(&model.CartLine{}).Count(&count)
	assert.Zero(t, count)

	w = env.do(http.MethodGet, "/remove_cart/abc", nil, withSession(aliceToken))
	assert.Equal(t, http.StatusFound, w.Code)
	require.Len(t, flashesOf(t, w), 1)
}

func TestCartController_LogsErrorCodes(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.signIn(t, "alice")
	snacks := env.createCategory(t, "Snacks", false)
	chips := env.createProduct(t, snacks, "Chips", 10, 2.50)
	logs := captureLogs(t)

	w := env.do(http.MethodPost, "/addtocart", map[string]interface{}{"product_id": chips.ID, "product_qty": 20}, withSession(token), asAjax())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, logs.String(), `"code":"CART_INSUFFICIENT_STOCK"`)

	w = env.do(http.MethodPost, "/addtocart", map[string]interface{}{"product_id": 9999}, withSession(token), asAjax())
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, logs.String(), `"code":"CATALOG_PRODUCT_NOT_FOUND"`)

	w = env.do(http.MethodGet, "/remove_cart/9999", nil, withSession(token))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, logs.String(), `"code":"CART_LINE_NOT_FOUND"`)

	w = env.do(http.MethodGet, "/remove_cart/abc", nil, withSession(token))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, logs.String(), `"code":"VALIDATION_INVALID_ID"`)
}
