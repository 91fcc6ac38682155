package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/Zhima-Mochi/marketplace-console/internal/domain/product"
)

// ProductRepository keeps products in listing order and indexes them by id.
type ProductRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		items: make(map[string]*domain.Product),
	}
}

func (r *ProductRepository) Append(ctx context.Context, p *domain.Product) (int, error) {
	_ = ctx
	if p == nil || p.ID == "" {
		return 0, fmt.Errorf("product repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; exists {
		return 0, fmt.Errorf("product repository: duplicate id %q", p.ID)
	}

	r.items[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return len(r.order) - 1, nil
}

func (r *ProductRepository) At(ctx context.Context, index int) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.order) {
		return nil, domain.ErrInvalidIndex
	}
	return r.items[r.order[index]].Clone(), nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

func (r *ProductRepository) Save(ctx context.Context, p *domain.Product) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; !exists {
		return domain.ErrNotFound
	}
	r.items[p.ID] = p.Clone()
	return nil
}

func (r *ProductRepository) DeleteAt(ctx context.Context, index int) (*domain.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.order) {
		return nil, domain.ErrInvalidIndex
	}

	id := r.order[index]
	removed := r.items[id]
	delete(r.items, id)
	r.order = append(r.order[:index], r.order[index+1:]...)
	return removed, nil
}
