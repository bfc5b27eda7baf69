package model

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrCategoryNameRequired = errors.New("category name is required")

type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Image       string    `gorm:"type:varchar(255)" json:"image,omitempty"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	Hidden      bool      `gorm:"not null;default:false" json:"hidden"`
	CreatedAt   time.Time `json:"created_at"`

	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	return nil
}
