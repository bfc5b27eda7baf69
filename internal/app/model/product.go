package model

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrProductNameRequired  = errors.New("product name is required")
	ErrNegativeStock        = errors.New("product quantity must not be negative")
	ErrNegativePrice        = errors.New("product prices must not be negative")
	ErrProductCategoryUnset = errors.New("product category is required")
)

type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CategoryID    uint      `gorm:"not null;index" json:"category_id"`
	Name          string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Vendor        string    `gorm:"type:varchar(150)" json:"vendor"`
	Quantity      int       `gorm:"not null;default:0" json:"quantity"`
	OriginalPrice float64   `gorm:"not null" json:"original_price"`
	SellingPrice  float64   `gorm:"not null" json:"selling_price"`
	ProductImage  string    `gorm:"type:varchar(255)" json:"product_image,omitempty"`
	Description   string    `gorm:"type:varchar(500)" json:"description"`
	Hidden        bool      `gorm:"not null;default:false" json:"hidden"`
	Trending      bool      `gorm:"not null;default:false;index" json:"trending"`
	CreatedAt     time.Time `json:"created_at"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrProductNameRequired
	}
	if p.CategoryID == 0 {
		return ErrProductCategoryUnset
	}
	if p.Quantity < 0 {
		return ErrNegativeStock
	}
	if p.OriginalPrice < 0 || p.SellingPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}
