package receipt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrWriteFailed = errors.New("receipt: write failed")

const separator = "-------------------------------------"

// Receipt is the printable record of one completed purchase.
type Receipt struct {
	ID           string
	CustomerID   int
	CustomerName string
	ProductName  string
	Quantity     int
	UnitPrice    decimal.Decimal
	Total        decimal.Decimal
	MethodLabel  string
	Balance      decimal.Decimal
	IssuedAt     time.Time
}

// Render produces the plain-text block appended to the customer's receipt file.
func (r Receipt) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Receipt for customer: %s\n", r.CustomerName)
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Receipt ID: %s\n", r.ID)
	fmt.Fprintf(&b, "Issued at: %s\n", r.IssuedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Product: %s\n", r.ProductName)
	fmt.Fprintf(&b, "Quantity: %d\n", r.Quantity)
	fmt.Fprintf(&b, "Price: %s\n", r.UnitPrice.StringFixed(2))
	fmt.Fprintf(&b, "Total cost: %s\n", r.Total.StringFixed(2))
	fmt.Fprintf(&b, "Payment method: %s\n", r.MethodLabel)
	fmt.Fprintf(&b, "Remaining balance: %s\n", r.Balance.StringFixed(2))
	b.WriteString(separator + "\n")
	b.WriteString("Thank you for your purchase!\n\n")
	return b.String()
}

// Writer persists receipts and reports where each one went.
type Writer interface {
	Write(ctx context.Context, r Receipt) (string, error)
}
