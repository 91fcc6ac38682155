package customer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Zhima-Mochi/marketplace-console/internal/domain/payment"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/product"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/purchase"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("customer: not found")
	ErrInvalidName    = errors.New("customer: name is required")
	ErrInvalidBalance = errors.New("customer: balance must be zero or greater")
)

// Customer holds a balance that only ever decreases, through successful payments.
type Customer struct {
	ID      int
	Name    string
	Balance decimal.Decimal
	History []string
}

func New(id int, name string, balance decimal.Decimal) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if balance.IsNegative() {
		return nil, ErrInvalidBalance
	}
	return &Customer{ID: id, Name: name, Balance: balance}, nil
}

// Pay debits amount with the chosen method.
func (c *Customer) Pay(method payment.Method, amount decimal.Decimal) error {
	return method.Pay(amount, &c.Balance)
}

// Buy runs the purchase gates in order: quantity, stock, payment. Only after
// payment succeeds are the product's stock and the customer's history
// mutated. Any failure leaves both p and c unchanged.
func (c *Customer) Buy(p *product.Product, quantity int, method payment.Method) (purchase.Record, error) {
	if quantity <= 0 {
		return purchase.Record{}, product.ErrInvalidQuantity
	}

	total := p.Cost(quantity)

	if !p.CanSupply(quantity) {
		return purchase.Record{}, product.ErrInsufficientStock
	}

	if err := c.Pay(method, total); err != nil {
		return purchase.Record{}, err
	}

	if err := p.Deduct(quantity); err != nil {
		// unreachable after CanSupply; keep the balance consistent anyway
		c.Balance = c.Balance.Add(total)
		return purchase.Record{}, fmt.Errorf("customer: deduct stock: %w", err)
	}

	record := purchase.Record{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.Price,
		Total:       total,
		MethodLabel: method.Label(),
	}
	c.History = append(c.History, record.String())
	return record, nil
}

// PurchaseHistory returns history lines in insertion order.
func (c *Customer) PurchaseHistory() []string {
	return append([]string(nil), c.History...)
}

func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	clone := *c
	clone.History = append([]string(nil), c.History...)
	return &clone
}
