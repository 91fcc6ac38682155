package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/Zhima-Mochi/marketplace-console/internal/domain/customer"
	"github.com/shopspring/decimal"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers []*domain.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

func (r *CustomerRepository) Add(ctx context.Context, name string, balance decimal.Decimal) (*domain.Customer, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := domain.New(len(r.customers)+1, name, balance)
	if err != nil {
		return nil, err
	}
	r.customers = append(r.customers, c)
	return c.Clone(), nil
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*domain.Customer, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	if id <= 0 || id > len(r.customers) {
		return nil, domain.ErrNotFound
	}
	return r.customers[id-1].Clone(), nil
}

func (r *CustomerRepository) Save(ctx context.Context, c *domain.Customer) error {
	_ = ctx
	if c == nil {
		return fmt.Errorf("customer repository: customer is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID <= 0 || c.ID > len(r.customers) {
		return domain.ErrNotFound
	}
	r.customers[c.ID-1] = c.Clone()
	return nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c.Clone())
	}
	return out, nil
}
