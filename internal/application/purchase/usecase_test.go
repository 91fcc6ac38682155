package purchase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Zhima-Mochi/marketplace-console/internal/domain/customer"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/payment"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/product"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/receipt"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/memory"
	obsinfra "github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/observability/zaplogger"
	filereceipt "github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/receipt"
	"github.com/Zhima-Mochi/marketplace-console/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type failingWriter struct{}

func (failingWriter) Write(context.Context, receipt.Receipt) (string, error) {
	return "", errors.New("disk full")
}

type brokenProducts struct {
	*memory.ProductRepository
}

func (brokenProducts) Save(context.Context, *product.Product) error {
	return errors.New("store unavailable")
}

type fixture struct {
	customers *memory.CustomerRepository
	products  *memory.ProductRepository
	dir       string
	registry  *prometheus.Registry
	logs      *observer.ObservedLogs
	uc        *UseCase
}

func newFixture(t *testing.T, writer receipt.Writer) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		customers: memory.NewCustomerRepository(),
		products:  memory.NewProductRepository(),
		dir:       filepath.Join(t.TempDir(), "checks"),
		registry:  prometheus.NewRegistry(),
	}
	if writer == nil {
		writer = filereceipt.NewFileWriter(f.dir)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs
	counters, histograms := prometrics.Standard(prometrics.New(f.registry, "", ""))
	tel := obsinfra.New(obsinfra.Options{
		Logger:     zaplogger.Wrap(zap.New(core)),
		Counters:   counters,
		Histograms: histograms,
	})

	_, err := f.customers.Add(ctx, "Buyer", decimal.NewFromInt(100))
	require.NoError(t, err)

	p, err := product.New("widget", "Widget", decimal.NewFromInt(20), 3, 1)
	require.NoError(t, err)
	_, err = f.products.Append(ctx, p)
	require.NoError(t, err)

	f.uc = NewUseCase(f.customers, f.products, writer, &seqIDs{}, tel)
	f.uc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) state(t *testing.T) (decimal.Decimal, int, []string) {
	t.Helper()
	ctx := context.Background()
	c, err := f.customers.Get(ctx, 1)
	require.NoError(t, err)
	p, err := f.products.At(ctx, 0)
	require.NoError(t, err)
	return c.Balance, p.Quantity, c.PurchaseHistory()
}

// requests sums usecase_requests_total for the purchase use case with the given outcome.
func (f *fixture) requests(t *testing.T, outcome string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	require.NoError(t, err)

	var total float64
	for _, family := range families {
		if family.GetName() != string(observability.MUsecaseRequests) {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["use_case"] == useCasePurchase && labels["outcome"] == outcome {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestExecuteSuccess(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.uc.Execute(context.Background(), Input{CustomerID: 1, ProductIndex: 0, Quantity: 2, Method: payment.Card})
	require.NoError(t, err)
	require.NoError(t, res.ReceiptErr)

	assert.True(t, decimal.NewFromInt(40).Equal(res.Record.Total))
	assert.True(t, decimal.NewFromInt(60).Equal(res.Balance))
	assert.Equal(t, 1, res.RemainingStock)
	assert.Equal(t, "Card payment", res.Record.MethodLabel)
	assert.Equal(t, "id-1", res.Receipt.ID)

	balance, stock, history := f.state(t)
	assert.True(t, decimal.NewFromInt(60).Equal(balance))
	assert.Equal(t, 1, stock)
	assert.Equal(t, []string{"Purchased: Widget, Quantity: 2, Total cost: 40.00"}, history)

	assert.Equal(t, filepath.Join(f.dir, "customer-1_receipt.txt"), res.ReceiptPath)
	data, err := os.ReadFile(res.ReceiptPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Receipt for customer: Buyer")
	assert.Contains(t, text, "Total cost: 40.00")
	assert.Contains(t, text, "Payment method: Card payment")
	assert.Contains(t, text, "Remaining balance: 60.00")

	done := f.logs.FilterMessage("use_case_done").All()
	require.Len(t, done, 1)
	assert.Equal(t, "success", done[0].ContextMap()["outcome"])
	assert.Equal(t, "OK", done[0].ContextMap()["status"])
}

func TestExecuteExactBalance(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.customers.Save(ctx, &customer.Customer{ID: 1, Name: "Buyer", Balance: decimal.NewFromInt(60)}))

	res, err := f.uc.Execute(ctx, Input{CustomerID: 1, ProductIndex: 0, Quantity: 3, Method: payment.Crypto})
	require.NoError(t, err)
	assert.True(t, res.Balance.IsZero())
	assert.Equal(t, 0, res.RemainingStock)
	assert.Equal(t, "Cryptocurrency payment", res.Receipt.MethodLabel)
}

func TestExecuteRejectionsLeaveStateUntouched(t *testing.T) {
	cases := []struct {
		name   string
		in     Input
		target error
		status string
	}{
		{"insufficient stock", Input{CustomerID: 1, ProductIndex: 0, Quantity: 4, Method: payment.Cash}, product.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
		{"insufficient funds", Input{CustomerID: 1, ProductIndex: 0, Quantity: 3, Method: payment.Cash}, nil, ""},
		{"invalid index", Input{CustomerID: 1, ProductIndex: 1, Quantity: 1, Method: payment.Cash}, product.ErrInvalidIndex, "PRODUCT_LOOKUP_FAILED"},
		{"negative index", Input{CustomerID: 1, ProductIndex: -1, Quantity: 1, Method: payment.Cash}, product.ErrInvalidIndex, "PRODUCT_LOOKUP_FAILED"},
		{"unknown customer", Input{CustomerID: 7, ProductIndex: 0, Quantity: 1, Method: payment.Cash}, customer.ErrNotFound, "CUSTOMER_LOOKUP_FAILED"},
		{"zero quantity", Input{CustomerID: 1, ProductIndex: 0, Quantity: 0, Method: payment.Cash}, product.ErrInvalidQuantity, "QUANTITY_INVALID"},
		{"unknown method", Input{CustomerID: 1, ProductIndex: 0, Quantity: 1, Method: payment.Method(9)}, payment.ErrUnknownMethod, "METHOD_INVALID"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			if tc.target == nil {
				// 3 x 20 = 60 against a balance of 50
				require.NoError(t, f.customers.Save(context.Background(), &customer.Customer{ID: 1, Name: "Buyer", Balance: decimal.NewFromInt(50)}))
				tc.target, tc.status = payment.ErrInsufficientFunds, "INSUFFICIENT_FUNDS"
			}
			beforeBalance, beforeStock, _ := f.state(t)

			res, err := f.uc.Execute(context.Background(), tc.in)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.target)

			balance, stock, history := f.state(t)
			assert.True(t, beforeBalance.Equal(balance))
			assert.Equal(t, beforeStock, stock)
			assert.Empty(t, history)

			_, statErr := os.Stat(f.dir)
			assert.True(t, os.IsNotExist(statErr))

			done := f.logs.FilterMessage("use_case_done").All()
			require.Len(t, done, 1)
			assert.Equal(t, "error", done[0].ContextMap()["outcome"])
			assert.Equal(t, tc.status, done[0].ContextMap()["status"])
			assert.Equal(t, float64(1), f.requests(t, "error"))
		})
	}
}

func TestExecuteStockCheckedBeforeFunds(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.customers.Save(context.Background(), &customer.Customer{ID: 1, Name: "Buyer", Balance: decimal.NewFromInt(1)}))

	_, err := f.uc.Execute(context.Background(), Input{CustomerID: 1, ProductIndex: 0, Quantity: 10, Method: payment.Card})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
}

func TestExecuteReceiptFailureKeepsPurchase(t *testing.T) {
	f := newFixture(t, failingWriter{})

	res, err := f.uc.Execute(context.Background(), Input{CustomerID: 1, ProductIndex: 0, Quantity: 1, Method: payment.Cash})
	require.NoError(t, err)
	require.Error(t, res.ReceiptErr)
	assert.ErrorIs(t, res.ReceiptErr, receipt.ErrWriteFailed)
	assert.Empty(t, res.ReceiptPath)

	balance, stock, history := f.state(t)
	assert.True(t, decimal.NewFromInt(80).Equal(balance))
	assert.Equal(t, 2, stock)
	assert.Len(t, history, 1)

	assert.Equal(t, 1, f.logs.FilterMessage("receipt_write_failed").Len())
	done := f.logs.FilterMessage("use_case_done").All()
	require.Len(t, done, 1)
	assert.Equal(t, "success", done[0].ContextMap()["outcome"])
	assert.Equal(t, "RECEIPT_WRITE_FAILED", done[0].ContextMap()["status"])
}

func TestExecuteRestoresCustomerWhenProductSaveFails(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.products = brokenProducts{f.products}

	_, err := f.uc.Execute(context.Background(), Input{CustomerID: 1, ProductIndex: 0, Quantity: 1, Method: payment.Cash})
	require.Error(t, err)

	balance, stock, history := f.state(t)
	assert.True(t, decimal.NewFromInt(100).Equal(balance))
	assert.Equal(t, 3, stock)
	assert.Empty(t, history)
}

func TestExecuteAppendsReceiptsForRepeatPurchases(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.uc.Execute(ctx, Input{CustomerID: 1, ProductIndex: 0, Quantity: 1, Method: payment.Cash})
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(f.dir, "customer-1_receipt.txt"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "Thank you for your purchase!"))
	assert.Equal(t, float64(2), f.requests(t, "success"))
}
