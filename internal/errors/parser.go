package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns storage failures into a code and a message safe to show
// to a user. context names the operation, e.g. "register user".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error())
	}

	errLower := strings.ToLower(err.Error())

	// postgres: 23505 duplicate key, sqlite: UNIQUE constraint failed
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// postgres: 23503, sqlite: FOREIGN KEY constraint failed
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower)
	}

	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing."}
	}

	if strings.Contains(errLower, "connection refused") || strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: InternalDatabaseError, Message: "The service is temporarily unavailable. Please try again."}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "A user with that username already exists."}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailExists, Message: "A user with that email already exists."}
	case strings.Contains(errLower, "cart_lines"):
		return ErrorInfo{Code: ResourceConflict, Message: "This product is already in your cart."}
	case strings.Contains(errLower, "favourite_entries"):
		return ErrorInfo{Code: ResourceConflict, Message: "This product is already in your favourites."}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists."}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{Code: ResourceConflict, Message: "This record is still in use and cannot be deleted."}
	}
	if strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories") {
		return ErrorInfo{Code: CatalogCategoryNotFound, Message: "The referenced category does not exist."}
	}
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{Code: CatalogProductNotFound, Message: "The referenced product does not exist."}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist."}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "category"):
		return "No such category found."
	case strings.Contains(contextLower, "product"):
		return "No Such Product Found."
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found or you don't have permission to delete it."
	case strings.Contains(contextLower, "favourite"):
		return "Favourite item not found or permission denied."
	case strings.Contains(contextLower, "user"):
		return "User not found."
	}
	return "The requested record was not found."
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "register"):
		return "Registration failed. Please try again later."
	case strings.Contains(contextLower, "import"):
		return "Catalog import failed."
	}
	return StatusUnexpected
}
