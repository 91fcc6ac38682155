package consolepresentation

import (
	"errors"

	"github.com/Zhima-Mochi/marketplace-console/internal/domain/customer"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/payment"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/product"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/seller"
)

func describeError(err error) string {
	switch {
	case errors.Is(err, product.ErrInvalidIndex):
		return "Invalid product index."
	case errors.Is(err, product.ErrInsufficientStock):
		return "Not enough stock available."
	case errors.Is(err, payment.ErrInsufficientFunds):
		return "Insufficient funds for payment."
	case errors.Is(err, seller.ErrNotFound):
		return "Seller with this ID was not found."
	case errors.Is(err, customer.ErrNotFound):
		return "Customer with this ID was not found."
	case errors.Is(err, payment.ErrUnknownMethod):
		return "Invalid payment method choice."
	case errors.Is(err, seller.ErrInvalidName),
		errors.Is(err, customer.ErrInvalidName),
		errors.Is(err, product.ErrInvalidName):
		return "Name must not be empty."
	case errors.Is(err, product.ErrInvalidPrice):
		return "Price must be zero or greater."
	case errors.Is(err, product.ErrInvalidQuantity):
		return "Invalid quantity."
	case errors.Is(err, customer.ErrInvalidBalance):
		return "Balance must be zero or greater."
	default:
		return "Operation failed: " + err.Error()
	}
}
