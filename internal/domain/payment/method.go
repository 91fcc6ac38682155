package payment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = errors.New("payment: insufficient funds")
	ErrUnknownMethod     = errors.New("payment: unknown method")
	ErrInvalidAmount     = errors.New("payment: amount must be zero or greater")
)

// Method selects how a purchase is paid. The set is closed: Cash, Card, Crypto.
type Method int

const (
	Cash Method = iota + 1
	Card
	Crypto
)

// Methods lists every supported method in menu order.
var Methods = []Method{Cash, Card, Crypto}

// ParseChoice maps a menu choice (1 cash, 2 card, 3 crypto) to a Method.
func ParseChoice(choice int) (Method, error) {
	m := Method(choice)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownMethod, choice)
	}
	return m, nil
}

func (m Method) Valid() bool {
	switch m {
	case Cash, Card, Crypto:
		return true
	default:
		return false
	}
}

// Label is the human-readable name printed on receipts.
func (m Method) Label() string {
	switch m {
	case Cash:
		return "Cash payment"
	case Card:
		return "Card payment"
	case Crypto:
		return "Cryptocurrency payment"
	default:
		return "Unknown payment"
	}
}

// String is the low-cardinality tag used for logs and metric labels.
func (m Method) String() string {
	switch m {
	case Cash:
		return "cash"
	case Card:
		return "card"
	case Crypto:
		return "crypto"
	default:
		return "unknown"
	}
}

// Attempt debits amount from balance when the balance covers it.
// On failure the balance is left untouched. Callers guarantee amount >= 0.
func (m Method) Attempt(amount decimal.Decimal, balance *decimal.Decimal) bool {
	if balance == nil {
		return false
	}
	switch m {
	case Cash, Card, Crypto:
		return debit(amount, balance)
	default:
		return false
	}
}

// Pay is Attempt with the failure reason spelled out.
func (m Method) Pay(amount decimal.Decimal, balance *decimal.Decimal) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !m.Attempt(amount, balance) {
		return ErrInsufficientFunds
	}
	return nil
}

func debit(amount decimal.Decimal, balance *decimal.Decimal) bool {
	if balance.LessThan(amount) {
		return false
	}
	*balance = balance.Sub(amount)
	return true
}
