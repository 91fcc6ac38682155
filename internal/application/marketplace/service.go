package marketplace

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/marketplace-console/internal/application"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/customer"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/product"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/seller"
	"github.com/Zhima-Mochi/marketplace-console/internal/observability"
	"github.com/Zhima-Mochi/marketplace-console/internal/observability/logctx"
	"github.com/shopspring/decimal"
)

const marketplaceService = "marketplace-service"

// Listing pairs a product with its current 0-based position in the catalog.
type Listing struct {
	Index   int
	Product *product.Product
}

// Service is the registry owning every seller, customer and product for the
// lifetime of the process. It is constructed once and passed to callers.
type Service struct {
	sellers   seller.Repository
	customers customer.Repository
	products  product.Repository
	ids       application.IDGenerator
	log       observability.Logger
}

func NewService(
	sellers seller.Repository,
	customers customer.Repository,
	products product.Repository,
	ids application.IDGenerator,
	tel observability.Observability,
) *Service {
	baseLog := observability.NopLogger()
	if tel != nil {
		baseLog = tel.Logger()
	}
	return &Service{
		sellers:   sellers,
		customers: customers,
		products:  products,
		ids:       ids,
		log:       baseLog.With(observability.F("service", marketplaceService)),
	}
}

func (s *Service) AddSeller(ctx context.Context, name string) (int, error) {
	created, err := s.sellers.Add(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("marketplace: add seller: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("seller_added",
		observability.F("seller_id", created.ID),
		observability.F("name", created.Name),
	)
	return created.ID, nil
}

func (s *Service) AddCustomer(ctx context.Context, name string, balance decimal.Decimal) (int, error) {
	created, err := s.customers.Add(ctx, name, balance)
	if err != nil {
		return 0, fmt.Errorf("marketplace: add customer: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("customer_added",
		observability.F("customer_id", created.ID),
		observability.F("name", created.Name),
		observability.F("balance", created.Balance),
	)
	return created.ID, nil
}

// ResolveSeller returns seller.ErrNotFound for ids outside [1, size].
func (s *Service) ResolveSeller(ctx context.Context, id int) (*seller.Seller, error) {
	return s.sellers.Get(ctx, id)
}

// ResolveCustomer returns customer.ErrNotFound for ids outside [1, size].
func (s *Service) ResolveCustomer(ctx context.Context, id int) (*customer.Customer, error) {
	return s.customers.Get(ctx, id)
}

// ListProduct lets the seller with sellerID add a product to the shared catalog.
func (s *Service) ListProduct(ctx context.Context, sellerID int, name string, price decimal.Decimal, quantity int) (Listing, error) {
	owner, err := s.sellers.Get(ctx, sellerID)
	if err != nil {
		return Listing{}, fmt.Errorf("marketplace: list product: %w", err)
	}

	p, index, err := owner.ListProduct(ctx, s.products, s.ids.NewID(), name, price, quantity)
	if err != nil {
		return Listing{}, fmt.Errorf("marketplace: list product: %w", err)
	}

	logctx.FromOr(ctx, s.log).Info("product_listed",
		observability.F("seller_id", owner.ID),
		observability.F("product_id", p.ID),
		observability.F("product_index", index),
		observability.F("price", p.Price),
		observability.F("quantity", p.Quantity),
	)
	return Listing{Index: index, Product: p}, nil
}

// ListProducts returns the catalog in listing order.
func (s *Service) ListProducts(ctx context.Context) ([]Listing, error) {
	return s.filter(ctx, func(*product.Product) bool { return true })
}

// ListProductsOf returns the products attributed to sellerID. An unknown seller
// and a seller without products both yield an empty result.
func (s *Service) ListProductsOf(ctx context.Context, sellerID int) ([]Listing, error) {
	return s.filter(ctx, func(p *product.Product) bool { return p.SellerID == sellerID })
}

// FilterProductsByPrice returns products with min <= price <= max in listing order.
func (s *Service) FilterProductsByPrice(ctx context.Context, min, max decimal.Decimal) ([]Listing, error) {
	return s.filter(ctx, func(p *product.Product) bool { return p.InPriceRange(min, max) })
}

func (s *Service) filter(ctx context.Context, keep func(*product.Product) bool) ([]Listing, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("marketplace: list products: %w", err)
	}
	out := make([]Listing, 0, len(all))
	for i, p := range all {
		if keep(p) {
			out = append(out, Listing{Index: i, Product: p})
		}
	}
	return out, nil
}

// DeleteProduct removes the product at index; later products shift down by one.
func (s *Service) DeleteProduct(ctx context.Context, index int) error {
	removed, err := s.products.DeleteAt(ctx, index)
	if err != nil {
		return fmt.Errorf("marketplace: delete product: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("product_deleted",
		observability.F("product_id", removed.ID),
		observability.F("product_index", index),
	)
	return nil
}

// UpdateProduct overwrites the price and stock of the product at index.
func (s *Service) UpdateProduct(ctx context.Context, index int, price decimal.Decimal, quantity int) error {
	p, err := s.products.At(ctx, index)
	if err != nil {
		return fmt.Errorf("marketplace: update product: %w", err)
	}
	if err := p.Reprice(price, quantity); err != nil {
		return fmt.Errorf("marketplace: update product: %w", err)
	}
	if err := s.products.Save(ctx, p); err != nil {
		return fmt.Errorf("marketplace: update product: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("product_updated",
		observability.F("product_id", p.ID),
		observability.F("product_index", index),
		observability.F("price", p.Price),
		observability.F("quantity", p.Quantity),
	)
	return nil
}

func (s *Service) Balance(ctx context.Context, customerID int) (decimal.Decimal, error) {
	c, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Balance, nil
}

func (s *Service) PurchaseHistory(ctx context.Context, customerID int) ([]string, error) {
	c, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return c.PurchaseHistory(), nil
}

func (s *Service) Sellers(ctx context.Context) ([]*seller.Seller, error) {
	return s.sellers.List(ctx)
}

func (s *Service) Customers(ctx context.Context) ([]*customer.Customer, error) {
	return s.customers.List(ctx)
}
