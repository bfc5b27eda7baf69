package errors

// Error codes are logged alongside every failure so log queries can group
// them. Format: CATEGORY_DETAIL.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthEmailExists        = "AUTH_EMAIL_EXISTS"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput   = "VALIDATION_INVALID_INPUT"
	ValidationInvalidRequest = "VALIDATION_INVALID_REQUEST"
	ValidationInvalidID      = "VALIDATION_INVALID_ID"
	ValidationRequired       = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (CATALOG_) ====================
	CatalogCategoryNotFound = "CATALOG_CATEGORY_NOT_FOUND"
	CatalogProductNotFound  = "CATALOG_PRODUCT_NOT_FOUND"

	// ==================== Ledgers (CART_, FAVOURITE_) ====================
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK"
	CartLineNotFound      = "CART_LINE_NOT_FOUND"
	FavouriteNotFound     = "FAVOURITE_NOT_FOUND"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)

// Status texts returned by the AJAX endpoints.
const (
	StatusAddedToCart       = "Product added to cart"
	StatusAddedToFavourite  = "Product Added To Favourite"
	StatusInsufficientStock = "Insufficient stock"
	StatusProductNotFound   = "Product not found"
	StatusInvalidRequest    = "Invalid request"
	StatusLoginRequired     = "Login to continue"
	StatusUnexpected        = "Something went wrong"
)
