package db

import (
	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartLine{},
		&model.FavouriteEntry{},
	}
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedDemoCatalog inserts a small storefront catalog when no categories exist.
func SeedDemoCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Catalog already seeded, skipping...", map[string]interface{}{
			"existing_categories": count,
		})
		return nil
	}

	logger.Info("Seeding demo catalog...")

	catalog := []struct {
		category model.Category
		products []model.Product
	}{
		{
			category: model.Category{Name: "Snacks", Description: "Crisps, nuts and everything crunchy"},
			products: []model.Product{
				{Name: "Chips", Vendor: "Crunchy Co", Quantity: 10, OriginalPrice: 3.00, SellingPrice: 2.50, Trending: true, Description: "Salted potato chips"},
				{Name: "Peanuts", Vendor: "Nutty Farms", Quantity: 25, OriginalPrice: 4.00, SellingPrice: 3.20, Description: "Roasted peanuts"},
			},
		},
		{
			category: model.Category{Name: "Beverages", Description: "Cold drinks and juices"},
			products: []model.Product{
				{Name: "Cola", Vendor: "Fizz Ltd", Quantity: 40, OriginalPrice: 1.50, SellingPrice: 1.20, Trending: true, Description: "Classic cola 330ml"},
				{Name: "Orange Juice", Vendor: "Sunny Groves", Quantity: 15, OriginalPrice: 3.50, SellingPrice: 3.00, Description: "Fresh pressed"},
			},
		},
		{
			category: model.Category{Name: "Seasonal", Description: "Limited editions", Hidden: true},
			products: []model.Product{
				{Name: "Pumpkin Spice Latte Mix", Vendor: "Autumn Co", Quantity: 5, OriginalPrice: 8.00, SellingPrice: 6.50, Description: "Back in the fall"},
			},
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		productsInserted := 0
		for _, entry := range catalog {
			category := entry.category
			if err := tx.Create(&category).Error; err != nil {
				logger.Error("Failed to create category", err, map[string]interface{}{
					"category": category.Name,
				})
				return err
			}

			for _, product := range entry.products {
				product.CategoryID = category.ID
				if err := tx.Omit(clause.Associations).Create(&product).Error; err != nil {
					logger.Error("Failed to create product", err, map[string]interface{}{
						"product": product.Name,
					})
					return err
				}
				productsInserted++
			}
		}

		logger.Info("Demo catalog seeded successfully", map[string]interface{}{
			"categories": len(catalog),
			"products":   productsInserted,
		})
		return nil
	})
}
