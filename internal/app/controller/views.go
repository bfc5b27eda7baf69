package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/middleware"
	"github.com/shopline/shop-backend/internal/storage"
)

// FlexibleInt accepts a JSON number or a numeric string, e.g. 3 or "3".
type FlexibleInt int64

func (n *FlexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		*n = FlexibleInt(v)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != float64(int64(f)) {
		return fmt.Errorf("invalid integer %s", data)
	}
	*n = FlexibleInt(f)
	return nil
}

// isAjaxPost mirrors the browser contract of the AJAX endpoints: a POST
// carrying the X-Requested-With: XMLHttpRequest marker.
func isAjaxPost(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost &&
		strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest")
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// renderPage writes a page view model with the session's pending flash
// messages and the signed-in user, if any.
func renderPage(c *gin.Context, status int, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["messages"] = middleware.ConsumeFlashes(c)
	if username, ok := middleware.GetUsername(c); ok {
		data["user"] = gin.H{"username": username}
	} else {
		data["user"] = nil
	}
	c.JSON(status, data)
}

func redirectWithFlash(c *gin.Context, level, text, location string) {
	middleware.AddFlash(c, level, text)
	c.Redirect(http.StatusFound, location)
}

type CategoryView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type ProductView struct {
	ID            uint    `json:"id"`
	CategoryID    uint    `json:"category_id"`
	CategoryName  string  `json:"category_name"`
	Name          string  `json:"name"`
	Vendor        string  `json:"vendor"`
	Quantity      int     `json:"quantity"`
	OriginalPrice float64 `json:"original_price"`
	SellingPrice  float64 `json:"selling_price"`
	ImageURL      string  `json:"image_url"`
	Description   string  `json:"description"`
	Trending      bool    `json:"trending"`
}

type CartLineView struct {
	ID        uint        `json:"id"`
	Product   ProductView `json:"product"`
	Quantity  int         `json:"quantity"`
	TotalCost float64     `json:"total_cost"`
}

type FavouriteView struct {
	ID      uint        `json:"id"`
	Product ProductView `json:"product"`
}

// viewBuilder resolves image references while mapping models to views.
type viewBuilder struct {
	images storage.ImageResolver
}

func (v viewBuilder) category(ctx context.Context, c model.Category) CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    v.images.ImageURL(ctx, c.Image),
	}
}

func (v viewBuilder) categories(ctx context.Context, cs []model.Category) []CategoryView {
	views := make([]CategoryView, 0, len(cs))
	for _, c := range cs {
		views = append(views, v.category(ctx, c))
	}
	return views
}

func (v viewBuilder) product(ctx context.Context, p model.Product) ProductView {
	return ProductView{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		CategoryName:  p.Category.Name,
		Name:          p.Name,
		Vendor:        p.Vendor,
		Quantity:      p.Quantity,
		OriginalPrice: p.OriginalPrice,
		SellingPrice:  p.SellingPrice,
		ImageURL:      v.images.ImageURL(ctx, p.ProductImage),
		Description:   p.Description,
		Trending:      p.Trending,
	}
}

func (v viewBuilder) products(ctx context.Context, ps []model.Product) []ProductView {
	views := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		views = append(views, v.product(ctx, p))
	}
	return views
}

func (v viewBuilder) cartLines(ctx context.Context, lines []model.CartLine) []CartLineView {
	views := make([]CartLineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, CartLineView{
			ID:        l.ID,
			Product:   v.product(ctx, l.Product),
			Quantity:  l.Quantity,
			TotalCost: l.TotalCost(),
		})
	}
	return views
}

func (v viewBuilder) favourites(ctx context.Context, entries []model.FavouriteEntry) []FavouriteView {
	views := make([]FavouriteView, 0, len(entries))
	for _, e := range entries {
		views = append(views, FavouriteView{
			ID:      e.ID,
			Product: v.product(ctx, e.Product),
		})
	}
	return views
}
