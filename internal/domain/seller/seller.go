package seller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Zhima-Mochi/marketplace-console/internal/domain/product"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("seller: not found")
	ErrInvalidName = errors.New("seller: name is required")
)

type Seller struct {
	ID   int
	Name string
}

func New(id int, name string) (*Seller, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	return &Seller{ID: id, Name: name}, nil
}

// Catalog is the shared product collection a seller lists into.
type Catalog interface {
	Append(ctx context.Context, p *product.Product) (int, error)
}

// ListProduct appends a product attributed to this seller and returns it with
// its 0-based position in the catalog.
func (s Seller) ListProduct(ctx context.Context, catalog Catalog, productID, name string, price decimal.Decimal, quantity int) (*product.Product, int, error) {
	p, err := product.New(productID, name, price, quantity, s.ID)
	if err != nil {
		return nil, 0, err
	}
	index, err := catalog.Append(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("seller: list product: %w", err)
	}
	return p, index, nil
}
