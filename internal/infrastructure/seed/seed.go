package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Zhima-Mochi/marketplace-console/internal/application/marketplace"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrInvalidCatalog = errors.New("seed: invalid catalog")

// Catalog is the on-disk shape of a startup fixture:
//
//	sellers:
//	  - name: Alice
//	    products:
//	      - {name: Widget, price: 10.5, quantity: 5}
//	customers:
//	  - {name: Bob, balance: 100}
type Catalog struct {
	Sellers   []SellerEntry   `yaml:"sellers"`
	Customers []CustomerEntry `yaml:"customers"`
}

type SellerEntry struct {
	Name     string         `yaml:"name"`
	Products []ProductEntry `yaml:"products"`
}

type ProductEntry struct {
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	Quantity int     `yaml:"quantity"`
}

type CustomerEntry struct {
	Name    string  `yaml:"name"`
	Balance float64 `yaml:"balance"`
}

// Seeder is the registry surface a catalog is applied through.
type Seeder interface {
	AddSeller(ctx context.Context, name string) (int, error)
	AddCustomer(ctx context.Context, name string, balance decimal.Decimal) (int, error)
	ListProduct(ctx context.Context, sellerID int, name string, price decimal.Decimal, quantity int) (marketplace.Listing, error)
}

// Summary counts what Apply created.
type Summary struct {
	Sellers   int
	Products  int
	Customers int
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return &c, nil
}

// Apply adds sellers (each followed by its products) and then customers, in
// file order, so ids come out exactly as if entered at the prompt.
func Apply(ctx context.Context, s Seeder, c *Catalog) (Summary, error) {
	var sum Summary
	if c == nil {
		return sum, nil
	}

	for i, se := range c.Sellers {
		sellerID, err := s.AddSeller(ctx, se.Name)
		if err != nil {
			return sum, fmt.Errorf("seed: seller #%d: %w", i+1, err)
		}
		sum.Sellers++

		for j, pe := range se.Products {
			if _, err := s.ListProduct(ctx, sellerID, pe.Name, decimal.NewFromFloat(pe.Price), pe.Quantity); err != nil {
				return sum, fmt.Errorf("seed: seller #%d product #%d: %w", i+1, j+1, err)
			}
			sum.Products++
		}
	}

	for i, ce := range c.Customers {
		if _, err := s.AddCustomer(ctx, ce.Name, decimal.NewFromFloat(ce.Balance)); err != nil {
			return sum, fmt.Errorf("seed: customer #%d: %w", i+1, err)
		}
		sum.Customers++
	}

	return sum, nil
}
