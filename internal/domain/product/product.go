package product

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("product: not found")
	ErrInvalidIndex      = errors.New("product: invalid index")
	ErrInvalidName       = errors.New("product: name is required")
	ErrInvalidPrice      = errors.New("product: price must be zero or greater")
	ErrInvalidQuantity   = errors.New("product: quantity must be zero or greater")
	ErrInsufficientStock = errors.New("product: insufficient stock")
)

// Product is a listing on the marketplace. ID is stable across deletions of
// other products; the position in the catalog is only a display ordering.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	SellerID  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(id, name string, price decimal.Decimal, quantity, sellerID int) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now().UTC()
	return &Product{
		ID:        id,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		SellerID:  sellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Cost is the total price of quantity units.
func (p *Product) Cost(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// CanSupply reports whether stock on hand covers quantity.
func (p *Product) CanSupply(quantity int) bool {
	return p.Quantity >= quantity
}

func (p *Product) Deduct(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !p.CanSupply(quantity) {
		return ErrInsufficientStock
	}
	p.Quantity -= quantity
	p.touch()
	return nil
}

// Reprice overwrites price and stock.
func (p *Product) Reprice(price decimal.Decimal, quantity int) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	p.Price = price
	p.Quantity = quantity
	p.touch()
	return nil
}

// InPriceRange reports whether min <= price <= max.
func (p *Product) InPriceRange(min, max decimal.Decimal) bool {
	return p.Price.GreaterThanOrEqual(min) && p.Price.LessThanOrEqual(max)
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}
