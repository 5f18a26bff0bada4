package ports

import (
	"context"

	"github.com/urbanserve/payments/internal/domain"
)

// OrderStore is the boundary to the external order record store. This service
// only reads order identity/amount and writes the payment fields.
type OrderStore interface {
	// Get returns the order for the given id, or domain.ErrOrderNotFound
	Get(ctx context.Context, orderID string) (*domain.Order, error)

	// CompareAndSetPaymentStatus atomically moves the order from
	// expectedCurrent to newStatus and writes the payment details in the same
	// statement. Returns false without error when the order's current status
	// no longer matches expectedCurrent, which callers treat as a lost race
	// against a concurrent callback.
	CompareAndSetPaymentStatus(ctx context.Context, orderID string, expectedCurrent, newStatus domain.PaymentStatus, details *domain.PaymentDetails) (bool, error)
}
