package catalogio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

type Exporter struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewExporter(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *Exporter {
	return &Exporter{categoryRepo: categoryRepo, productRepo: productRepo}
}

// ExportFile writes the whole catalog, hidden rows included, to path.
func (e *Exporter) ExportFile(path string) error {
	f, err := e.Build()
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX file: %w", err)
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"path": path,
	})
	return nil
}

// Build renders the catalog into a new workbook in the import layout.
func (e *Exporter) Build() (*excelize.File, error) {
	categories, err := e.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	products, err := e.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), CategoriesSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(ProductsSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeRow(f, CategoriesSheet, 1, toCells(categoryHeader)); err != nil {
		f.Close()
		return nil, err
	}
	for i, c := range categories {
		row := []interface{}{c.Name, c.Description, c.Image, strconv.FormatBool(c.Hidden)}
		if err := writeRow(f, CategoriesSheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := writeRow(f, ProductsSheet, 1, toCells(productHeader)); err != nil {
		f.Close()
		return nil, err
	}
	for i, p := range products {
		row := []interface{}{
			p.Category.Name,
			p.Name,
			p.Vendor,
			p.Quantity,
			p.OriginalPrice,
			p.SellingPrice,
			p.ProductImage,
			p.Description,
			strconv.FormatBool(p.Hidden),
			strconv.FormatBool(p.Trending),
		}
		if err := writeRow(f, ProductsSheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	logger.Debug("Catalog workbook built", map[string]interface{}{
		"categories": len(categories),
		"products":   len(products),
	})
	return f, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, start, &values)
}

func toCells(header []string) []interface{} {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}
