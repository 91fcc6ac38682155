package customer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository assigns ids sequentially from 1; Get(id) resolves collection[id-1].
type Repository interface {
	Add(ctx context.Context, name string, balance decimal.Decimal) (*Customer, error)
	Get(ctx context.Context, id int) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
	List(ctx context.Context) ([]*Customer, error)
}
