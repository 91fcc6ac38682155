package memory

import (
	"context"
	"sync"

	domain "github.com/Zhima-Mochi/marketplace-console/internal/domain/seller"
)

type SellerRepository struct {
	mu      sync.RWMutex
	sellers []*domain.Seller
}

func NewSellerRepository() *SellerRepository {
	return &SellerRepository{}
}

func (r *SellerRepository) Add(ctx context.Context, name string) (*domain.Seller, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := domain.New(len(r.sellers)+1, name)
	if err != nil {
		return nil, err
	}
	r.sellers = append(r.sellers, s)
	clone := *s
	return &clone, nil
}

func (r *SellerRepository) Get(ctx context.Context, id int) (*domain.Seller, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	if id <= 0 || id > len(r.sellers) {
		return nil, domain.ErrNotFound
	}
	clone := *r.sellers[id-1]
	return &clone, nil
}

func (r *SellerRepository) List(ctx context.Context) ([]*domain.Seller, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Seller, 0, len(r.sellers))
	for _, s := range r.sellers {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}
