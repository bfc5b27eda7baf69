package repository

import (
	"testing"

	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createCategory(t *testing.T, testDB *gorm.DB, name string, hidden bool) *model.Category {
	category := &model.Category{Name: name, Description: name + " aisle", Hidden: hidden}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func createProduct(t *testing.T, testDB *gorm.DB, category *model.Category, name string, stock int, price float64) *model.Product {
	product := &model.Product{
		CategoryID:    category.ID,
		Name:          name,
		Vendor:        "Acme",
		Quantity:      stock,
		OriginalPrice: price,
		SellingPrice:  price,
	}
	require.NoError(t, testDB.Omit(clause.Associations).Create(product).Error)
	return product
}
