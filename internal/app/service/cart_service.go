package service

import (
	"errors"
	"strings"

	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized      = errors.New("login required")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartLineNotFound  = errors.New("cart line not found")
)

// StockPolicy decides what an add-to-cart request is checked against.
type StockPolicy string

const (
	// StockPolicyRequested compares only the requested quantity with catalog stock.
	StockPolicyRequested StockPolicy = "requested"
	// StockPolicyCumulative also counts what the user already holds in the cart.
	StockPolicyCumulative StockPolicy = "cumulative"
)

// ParseStockPolicy falls back to StockPolicyRequested for unknown values.
func ParseStockPolicy(s string) StockPolicy {
	switch StockPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case StockPolicyCumulative:
		return StockPolicyCumulative
	default:
		return StockPolicyRequested
	}
}

type CartSummary struct {
	Lines      []model.CartLine
	TotalPrice float64
}

type CartService interface {
	AddToCart(userID, productID uint, quantity int) (*model.CartLine, error)
	ListCart(userID uint) (*CartSummary, error)
	RemoveCartLine(userID, lineID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	policy      StockPolicy
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	policy StockPolicy,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		policy:      policy,
	}
}

func (s *cartService) AddToCart(userID, productID uint, quantity int) (*model.CartLine, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	needed := quantity
	if s.policy == StockPolicyCumulative {
		existing, err := s.cartRepo.FindByUserAndProduct(userID, productID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to fetch existing cart line", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, err
		}
		if existing != nil {
			needed += existing.Quantity
		}
	}

	if product.Quantity < needed {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"requested":  quantity,
			"needed":     needed,
			"available":  product.Quantity,
			"policy":     string(s.policy),
		})
		return nil, ErrInsufficientStock
	}

	line, err := s.cartRepo.AddQuantity(userID, productID, quantity)
	if err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":      userID,
		"product_id":   productID,
		"cart_line_id": line.ID,
		"quantity":     line.Quantity,
	})
	return line, nil
}

func (s *cartService) ListCart(userID uint) (*CartSummary, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	lines, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	summary := &CartSummary{Lines: lines}
	for _, line := range lines {
		summary.TotalPrice += line.TotalCost()
	}
	return summary, nil
}

func (s *cartService) RemoveCartLine(userID, lineID uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}

	deleted, err := s.cartRepo.DeleteOwned(userID, lineID)
	if err != nil {
		logger.Error("Failed to remove cart line", err, map[string]interface{}{
			"user_id":      userID,
			"cart_line_id": lineID,
		})
		return err
	}
	if !deleted {
		logger.Warn("Cart line not found for user", map[string]interface{}{
			"user_id":      userID,
			"cart_line_id": lineID,
		})
		return ErrCartLineNotFound
	}

	logger.Info("Cart line removed", map[string]interface{}{
		"user_id":      userID,
		"cart_line_id": lineID,
	})
	return nil
}
