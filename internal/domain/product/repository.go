package product

import "context"

// Repository keeps products in listing order. Index arguments are 0-based
// positions in that order; deleting shifts later products down by one.
type Repository interface {
	Append(ctx context.Context, p *Product) (int, error)
	At(ctx context.Context, index int) (*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Save(ctx context.Context, p *Product) error
	DeleteAt(ctx context.Context, index int) (*Product, error)
}
