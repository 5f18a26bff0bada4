package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/urbanserve/payments/internal/domain"
)

// OrderStore implements ports.OrderStore against the orders table
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore creates an order store backed by the given pool
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const getOrderQuery = `
SELECT id, amount, currency, payment_method, payment_status,
       transaction_id, bank_reference_number, payment_date, failure_reason,
       amount_confirmed, currency_confirmed, created_at, updated_at
FROM orders
WHERE id = $1`

// Get returns the order for the given id
func (s *OrderStore) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx, getOrderQuery, orderID)

	var (
		order             domain.Order
		amount            pgtype.Numeric
		transactionID     pgtype.Text
		bankRefNo         pgtype.Text
		paymentDate       pgtype.Timestamptz
		failureReason     pgtype.Text
		amountConfirmed   pgtype.Numeric
		currencyConfirmed pgtype.Text
	)

	err := row.Scan(
		&order.ID, &amount, &order.Currency, &order.PaymentMethod, &order.PaymentStatus,
		&transactionID, &bankRefNo, &paymentDate, &failureReason,
		&amountConfirmed, &currencyConfirmed, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound.WithDetail("order_id", orderID)
		}
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "get order", err)
	}

	order.Amount, err = numericToDecimal(amount)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "convert order amount", err)
	}

	// Payment details exist only once reconciliation or cancellation has run
	if transactionID.Valid || bankRefNo.Valid || paymentDate.Valid || failureReason.Valid || amountConfirmed.Valid || currencyConfirmed.Valid {
		details := &domain.PaymentDetails{
			TransactionID:       transactionID.String,
			BankReferenceNumber: bankRefNo.String,
			FailureReason:       failureReason.String,
			CurrencyConfirmed:   currencyConfirmed.String,
		}
		if paymentDate.Valid {
			details.PaymentDate = paymentDate.Time
		}
		if amountConfirmed.Valid {
			confirmed, err := numericToDecimal(amountConfirmed)
			if err != nil {
				return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "convert confirmed amount", err)
			}
			details.AmountConfirmed = &confirmed
		}
		order.PaymentDetails = details
	}

	return &order, nil
}

const casStatusQuery = `
UPDATE orders
SET payment_status = $3,
    transaction_id = $4,
    bank_reference_number = $5,
    payment_date = $6,
    failure_reason = $7,
    amount_confirmed = $8,
    currency_confirmed = $9,
    updated_at = now()
WHERE id = $1 AND payment_status = $2`

// CompareAndSetPaymentStatus performs the atomic conditional status update.
// The WHERE clause on the current status is what closes the race between two
// near-simultaneous callbacks for the same order.
func (s *OrderStore) CompareAndSetPaymentStatus(ctx context.Context, orderID string, expectedCurrent, newStatus domain.PaymentStatus, details *domain.PaymentDetails) (bool, error) {
	var (
		transactionID     pgtype.Text
		bankRefNo         pgtype.Text
		paymentDate       pgtype.Timestamptz
		failureReason     pgtype.Text
		amountConfirmed   pgtype.Numeric
		currencyConfirmed pgtype.Text
	)

	if details != nil {
		transactionID = textOrNull(details.TransactionID)
		bankRefNo = textOrNull(details.BankReferenceNumber)
		failureReason = textOrNull(details.FailureReason)
		currencyConfirmed = textOrNull(details.CurrencyConfirmed)
		if !details.PaymentDate.IsZero() {
			paymentDate = pgtype.Timestamptz{Time: details.PaymentDate, Valid: true}
		}
		if details.AmountConfirmed != nil {
			if err := amountConfirmed.Scan(details.AmountConfirmed.String()); err != nil {
				return false, domain.WrapError(domain.ErrorCodeDatabaseError, "convert confirmed amount", err)
			}
		}
	}

	tag, err := s.pool.Exec(ctx, casStatusQuery,
		orderID, string(expectedCurrent), string(newStatus),
		transactionID, bankRefNo, paymentDate, failureReason,
		amountConfirmed, currencyConfirmed,
	)
	if err != nil {
		return false, domain.WrapError(domain.ErrorCodeDatabaseError, "update payment status", err)
	}

	return tag.RowsAffected() == 1, nil
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	value, err := n.Value()
	if err != nil {
		return decimal.Zero, err
	}
	str, ok := value.(string)
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected numeric driver value %T", value)
	}
	return decimal.NewFromString(str)
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
