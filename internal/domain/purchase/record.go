package purchase

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Record is one completed purchase as kept in a customer's history.
type Record struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	MethodLabel string
}

// String renders the history line shown to the customer.
func (r Record) String() string {
	return fmt.Sprintf("Purchased: %s, Quantity: %d, Total cost: %s", r.ProductName, r.Quantity, r.Total.StringFixed(2))
}
