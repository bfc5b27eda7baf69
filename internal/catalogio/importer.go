package catalogio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportReport struct {
	CategoriesCreated int
	CategoriesUpdated int
	ProductsCreated   int
	ProductsUpdated   int
	Errors            []RowError
}

type Importer struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewImporter(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *Importer {
	return &Importer{categoryRepo: categoryRepo, productRepo: productRepo}
}

// ImportFile reads a workbook from disk and upserts its rows.
func (i *Importer) ImportFile(path string) (*ImportReport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// Import upserts categories by name and products by (category, name).
// Invalid rows are skipped and reported; storage failures abort the import.
func (i *Importer) Import(f *excelize.File) (*ImportReport, error) {
	report := &ImportReport{}

	categoryRows, err := readSheet(f, CategoriesSheet)
	if err != nil {
		return nil, err
	}
	productRows, err := readSheet(f, ProductsSheet)
	if err != nil {
		return nil, err
	}

	for idx, row := range categoryRows {
		if blank(row) {
			continue
		}
		rowNum := idx + 2
		if err := i.importCategory(row, report); err != nil {
			var rowErr rowError
			if !errors.As(err, &rowErr) {
				return nil, fmt.Errorf("%s row %d: %w", CategoriesSheet, rowNum, err)
			}
			report.Errors = append(report.Errors, RowError{Sheet: CategoriesSheet, Row: rowNum, Err: rowErr.err})
		}
	}

	for idx, row := range productRows {
		if blank(row) {
			continue
		}
		rowNum := idx + 2
		if err := i.importProduct(row, report); err != nil {
			var rowErr rowError
			if !errors.As(err, &rowErr) {
				return nil, fmt.Errorf("%s row %d: %w", ProductsSheet, rowNum, err)
			}
			report.Errors = append(report.Errors, RowError{Sheet: ProductsSheet, Row: rowNum, Err: rowErr.err})
		}
	}

	logger.Info("Catalog import finished", map[string]interface{}{
		"categories_created": report.CategoriesCreated,
		"categories_updated": report.CategoriesUpdated,
		"products_created":   report.ProductsCreated,
		"products_updated":   report.ProductsUpdated,
		"skipped_rows":       len(report.Errors),
	})
	return report, nil
}

// rowError marks a problem with the row's content rather than with storage.
type rowError struct {
	err error
}

func (e rowError) Error() string {
	return e.err.Error()
}

func invalid(format string, args ...interface{}) error {
	return rowError{err: fmt.Errorf(format, args...)}
}

// readSheet returns the data rows after the header.
func readSheet(f *excelize.File, sheet string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rows[1:], nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (i *Importer) importCategory(row []string, report *ImportReport) error {
	name := cell(row, 0)
	if name == "" {
		return invalid("name is required")
	}
	hidden, err := parseFlag(cell(row, 3))
	if err != nil {
		return invalid("hidden: %v", err)
	}

	category, err := i.categoryRepo.FindByName(name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = &model.Category{
			Name:        name,
			Description: cell(row, 1),
			Image:       cell(row, 2),
			Hidden:      hidden,
		}
		if err := i.categoryRepo.Create(category); err != nil {
			return err
		}
		report.CategoriesCreated++
		return nil
	case err != nil:
		return err
	}

	category.Description = cell(row, 1)
	category.Image = cell(row, 2)
	category.Hidden = hidden
	if err := i.categoryRepo.Save(category); err != nil {
		return err
	}
	report.CategoriesUpdated++
	return nil
}

func (i *Importer) importProduct(row []string, report *ImportReport) error {
	categoryName := cell(row, 0)
	name := cell(row, 1)
	if categoryName == "" || name == "" {
		return invalid("category and name are required")
	}

	category, err := i.categoryRepo.FindByName(categoryName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid("unknown category %q", categoryName)
	}
	if err != nil {
		return err
	}

	quantity, err := parseQuantity(cell(row, 3))
	if err != nil {
		return invalid("%v", err)
	}
	originalPrice, err := parsePrice("original_price", cell(row, 4))
	if err != nil {
		return invalid("%v", err)
	}
	sellingPrice, err := parsePrice("selling_price", cell(row, 5))
	if err != nil {
		return invalid("%v", err)
	}
	hidden, err := parseFlag(cell(row, 8))
	if err != nil {
		return invalid("hidden: %v", err)
	}
	trending, err := parseFlag(cell(row, 9))
	if err != nil {
		return invalid("trending: %v", err)
	}

	product, err := i.productRepo.FindByCategoryAndName(category.ID, name)
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		product = &model.Product{CategoryID: category.ID, Name: name}
		created = true
	case err != nil:
		return err
	}

	product.Vendor = cell(row, 2)
	product.Quantity = quantity
	product.OriginalPrice = originalPrice
	product.SellingPrice = sellingPrice
	product.ProductImage = cell(row, 6)
	product.Description = cell(row, 7)
	product.Hidden = hidden
	product.Trending = trending

	if created {
		if err := i.productRepo.Create(product); err != nil {
			return err
		}
		report.ProductsCreated++
		return nil
	}
	if err := i.productRepo.Save(product); err != nil {
		return err
	}
	report.ProductsUpdated++
	return nil
}
