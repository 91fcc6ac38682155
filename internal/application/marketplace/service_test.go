package marketplace

import (
	"context"
	"fmt"
	"testing"

	"github.com/Zhima-Mochi/marketplace-console/internal/domain/customer"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/product"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/seller"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("p-%d", s.n)
}

func newService() *Service {
	return NewService(
		memory.NewSellerRepository(),
		memory.NewCustomerRepository(),
		memory.NewProductRepository(),
		&seqIDs{},
		nil,
	)
}

func names(listings []Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Product.Name)
	}
	return out
}

func TestAddAndResolve(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	id, err := svc.AddSeller(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	id, err = svc.AddSeller(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	s, err := svc.ResolveSeller(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bob", s.Name)

	_, err = svc.ResolveSeller(ctx, 3)
	assert.ErrorIs(t, err, seller.ErrNotFound)
	_, err = svc.ResolveSeller(ctx, 0)
	assert.ErrorIs(t, err, seller.ErrNotFound)

	cid, err := svc.AddCustomer(ctx, "Carol", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, 1, cid)

	c, err := svc.ResolveCustomer(ctx, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(c.Balance))

	_, err = svc.ResolveCustomer(ctx, 5)
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.AddSeller(ctx, " ")
	assert.ErrorIs(t, err, seller.ErrInvalidName)

	_, err = svc.AddCustomer(ctx, "Dan", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, customer.ErrInvalidBalance)

	sellers, err := svc.Sellers(ctx)
	require.NoError(t, err)
	assert.Empty(t, sellers)
}

func TestListProductAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	a, _ := svc.AddSeller(ctx, "A")
	b, _ := svc.AddSeller(ctx, "B")

	l, err := svc.ListProduct(ctx, a, "Pen", decimal.NewFromFloat(1.5), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Index)
	assert.Equal(t, "p-1", l.Product.ID)

	l, err = svc.ListProduct(ctx, b, "Ink", decimal.NewFromInt(3), 4)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Index)

	_, err = svc.ListProduct(ctx, a, "Pad", decimal.NewFromInt(2), 0)
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pen", "Ink", "Pad"}, names(all))

	mine, err := svc.ListProductsOf(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pen", "Pad"}, names(mine))
	assert.Equal(t, 2, mine[1].Index)

	none, err := svc.ListProductsOf(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.ListProduct(ctx, 42, "Ghost", decimal.NewFromInt(1), 1)
	assert.ErrorIs(t, err, seller.ErrNotFound)

	_, err = svc.ListProduct(ctx, a, "Bad", decimal.NewFromInt(-1), 1)
	assert.ErrorIs(t, err, product.ErrInvalidPrice)
}

func TestFilterProductsByPriceIsInclusive(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	s, _ := svc.AddSeller(ctx, "S")
	for _, p := range []struct {
		name  string
		price int64
	}{{"a", 5}, {"b", 10}, {"c", 15}, {"d", 20}} {
		_, err := svc.ListProduct(ctx, s, p.name, decimal.NewFromInt(p.price), 1)
		require.NoError(t, err)
	}

	got, err := svc.FilterProductsByPrice(ctx, decimal.NewFromInt(10), decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names(got))

	got, err = svc.FilterProductsByPrice(ctx, decimal.NewFromInt(30), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeleteProductShiftsIndices(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	s, _ := svc.AddSeller(ctx, "S")
	for _, n := range []string{"a", "b", "c"} {
		_, err := svc.ListProduct(ctx, s, n, decimal.NewFromInt(1), 1)
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteProduct(ctx, 1))

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, names(all))
	assert.Equal(t, 1, all[1].Index)
	assert.Equal(t, "p-3", all[1].Product.ID)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, 2), product.ErrInvalidIndex)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, -1), product.ErrInvalidIndex)
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	s, _ := svc.AddSeller(ctx, "S")
	_, err := svc.ListProduct(ctx, s, "a", decimal.NewFromInt(1), 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProduct(ctx, 0, decimal.NewFromFloat(2.25), 7))

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(2.25).Equal(all[0].Product.Price))
	assert.Equal(t, 7, all[0].Product.Quantity)

	assert.ErrorIs(t, svc.UpdateProduct(ctx, 3, decimal.NewFromInt(1), 1), product.ErrInvalidIndex)
	assert.ErrorIs(t, svc.UpdateProduct(ctx, 0, decimal.NewFromInt(1), -2), product.ErrInvalidQuantity)

	all, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, all[0].Product.Quantity)
}

func TestBalanceAndHistory(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id, _ := svc.AddCustomer(ctx, "C", decimal.NewFromInt(12))

	bal, err := svc.Balance(ctx, id)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(bal))

	history, err := svc.PurchaseHistory(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.Balance(ctx, 9)
	assert.ErrorIs(t, err, customer.ErrNotFound)
	_, err = svc.PurchaseHistory(ctx, 9)
	assert.ErrorIs(t, err, customer.ErrNotFound)

	customers, err := svc.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "C", customers[0].Name)
}
