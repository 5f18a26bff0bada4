package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an order is paid for
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodOnlineGateway  PaymentMethod = "online_gateway"
)

// PaymentStatus represents the payment lifecycle state of an order.
// Success is terminal; every other state can be re-entered via a new initiation.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailure   PaymentStatus = "failure"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsTerminal returns true for statuses that must never be overwritten
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess
}

// PaymentDetails holds the gateway-reported outcome of a payment attempt.
// Written only by reconciliation, never by request-side code.
type PaymentDetails struct {
	TransactionID       string           `json:"transaction_id,omitempty"`
	BankReferenceNumber string           `json:"bank_reference_number,omitempty"`
	PaymentDate         time.Time        `json:"payment_date,omitempty"`
	FailureReason       string           `json:"failure_reason,omitempty"`
	AmountConfirmed     *decimal.Decimal `json:"amount_confirmed,omitempty"`
	CurrencyConfirmed   string           `json:"currency_confirmed,omitempty"`
}

// Order is the payable unit this service tracks. The id doubles as the
// gateway's order_id and is the sole correlation key for callbacks.
type Order struct {
	ID             string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	PaymentDetails *PaymentDetails `json:"payment_details,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsPayable returns true if the order can still be sent to the gateway
func (o *Order) IsPayable() bool {
	return o.PaymentMethod == PaymentMethodOnlineGateway && !o.PaymentStatus.IsTerminal()
}
