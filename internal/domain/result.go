package domain

// Gateway order_status vocabulary. Anything outside this set is treated as a
// failure so an unrecognized status can never finalize an order as paid.
const (
	GatewayStatusSuccess = "Success"
	GatewayStatusFailure = "Failure"
	GatewayStatusAborted = "Aborted"
	GatewayStatusPending = "Pending"
)

// TransactionResult is the typed form of a decrypted gateway callback.
// OrderID is the only mandatory field; everything else defaults to empty.
type TransactionResult struct {
	OrderID        string
	TrackingID     string
	BankRefNo      string
	OrderStatus    string // raw gateway vocabulary, see MapStatus
	FailureMessage string
	Amount         string
	Currency       string
	TransDate      string
}

// MapStatus translates the gateway's order_status into an internal payment
// status. The second return is false for Pending/absent statuses, which are
// no-op callbacks that must not transition the order.
func (r *TransactionResult) MapStatus() (PaymentStatus, bool) {
	switch r.OrderStatus {
	case GatewayStatusSuccess:
		return PaymentStatusSuccess, true
	case GatewayStatusFailure, GatewayStatusAborted:
		return PaymentStatusFailure, true
	case GatewayStatusPending, "":
		return PaymentStatusPending, false
	default:
		// fail closed
		return PaymentStatusFailure, true
	}
}

// FailureReason returns the reason to record when the mapped status is Failure
func (r *TransactionResult) FailureReason() string {
	switch r.OrderStatus {
	case GatewayStatusFailure, GatewayStatusAborted:
		if r.FailureMessage != "" {
			return r.FailureMessage
		}
		return "payment " + r.OrderStatus
	default:
		return "unrecognized status: " + r.OrderStatus
	}
}
