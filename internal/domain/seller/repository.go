package seller

import "context"

// Repository assigns ids sequentially from 1; Get(id) resolves collection[id-1].
type Repository interface {
	Add(ctx context.Context, name string) (*Seller, error)
	Get(ctx context.Context, id int) (*Seller, error)
	List(ctx context.Context) ([]*Seller, error)
}
