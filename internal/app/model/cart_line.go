package model

import (
	"time"
)

// CartLine is one product in a user's cart. At most one line exists per
// (user, product); repeated adds accumulate into Quantity.
type CartLine struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_lines_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_lines_user_product;index" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

// TotalCost requires Product to be loaded.
func (l CartLine) TotalCost() float64 {
	return l.Product.SellingPrice * float64(l.Quantity)
}
