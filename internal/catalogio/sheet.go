// Package catalogio moves the catalog in and out of XLSX workbooks. A
// workbook has a Categories sheet and a Products sheet, each with a header
// row followed by one record per row.
package catalogio

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	CategoriesSheet = "Categories"
	ProductsSheet   = "Products"
)

var (
	categoryHeader = []string{"name", "description", "image", "hidden"}
	productHeader  = []string{
		"category", "name", "vendor", "quantity", "original_price",
		"selling_price", "image", "description", "hidden", "trending",
	}
)

// RowError points at a spreadsheet row that was skipped. Row is 1-based as
// shown in spreadsheet applications.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// cell returns the trimmed value at index i; GetRows drops trailing empty cells.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("invalid flag %q", s)
}

func parseQuantity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Spreadsheet apps sometimes store whole numbers as "10.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("invalid quantity %q", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("quantity must not be negative: %d", n)
	}
	return n, nil
}

func parsePrice(field, s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s must not be negative", field)
	}
	return f, nil
}
