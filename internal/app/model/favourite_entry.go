package model

import (
	"time"
)

type FavouriteEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favourite_entries_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favourite_entries_user_product;index" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (FavouriteEntry) TableName() string {
	return "favourite_entries"
}
