package payment

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/urbanserve/payments/internal/domain"
	"github.com/urbanserve/payments/internal/domain/ports"
	"github.com/urbanserve/payments/internal/gateway"
)

// transDateLayout is the gateway's trans_date format (dd/mm/yyyy hh:mm:ss)
const transDateLayout = "02/01/2006 15:04:05"

// casAttempts bounds the read-CAS loop against concurrent callback delivery
const casAttempts = 3

// Order ids are opaque but travel inside the key-value wire payload, so the
// separator characters are excluded.
var orderIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ReconciliationOutcome describes what applying a transaction result did
type ReconciliationOutcome string

const (
	// OutcomeApplied means the order transitioned to the result's status
	OutcomeApplied ReconciliationOutcome = "applied"
	// OutcomeAlreadyFinal means the order was already Success and the result was ignored
	OutcomeAlreadyFinal ReconciliationOutcome = "already_final"
	// OutcomeNoOp means the result carried no terminal status (gateway-side Pending)
	OutcomeNoOp ReconciliationOutcome = "no_op"
	// OutcomeOrderNotFound means the result's order_id matched nothing in the store
	OutcomeOrderNotFound ReconciliationOutcome = "order_not_found"
	// OutcomeError means reconciliation could not read or write the store
	OutcomeError ReconciliationOutcome = "error"
)

// InitiateResponse bundles everything the client browser needs to post the
// payment form to the gateway.
type InitiateResponse struct {
	PaymentURL string          `json:"paymentUrl"`
	EncRequest string          `json:"encRequest"`
	AccessCode string          `json:"accessCode"`
	OrderID    string          `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

// CallbackOutcome is the reconciled view of a single gateway callback, used
// by the HTTP layer to pick the redirect page.
type CallbackOutcome struct {
	Outcome ReconciliationOutcome
	OrderID string
	Status  domain.PaymentStatus
	Reason  string
}

// StatusResponse is the read-only projection of an order's payment state
type StatusResponse struct {
	OrderID        string                 `json:"serviceRequestId"`
	PaymentMethod  domain.PaymentMethod   `json:"paymentMethod"`
	PaymentStatus  domain.PaymentStatus   `json:"paymentStatus"`
	PaymentDetails *domain.PaymentDetails `json:"paymentDetails,omitempty"`
	TotalPrice     decimal.Decimal        `json:"totalPrice"`
}

// Service orchestrates the payment transaction lifecycle: handing an order to
// the hosted gateway, reconciling its asynchronous callbacks, cancellation
// and status reads.
type Service struct {
	store   ports.OrderStore
	codec   *gateway.Codec
	builder *gateway.RequestBuilder
	parser  *gateway.ResponseParser
	cfg     gateway.MerchantConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a payment service
func NewService(store ports.OrderStore, codec *gateway.Codec, cfg gateway.MerchantConfig, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		codec:   codec,
		builder: gateway.NewRequestBuilder(cfg),
		parser:  gateway.NewResponseParser(codec),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Initiate validates the order and produces the encrypted request payload the
// client must POST to the gateway. It has no side effect on payment status:
// the order stays Pending (or Failure/Cancelled) until a callback or
// cancellation arrives, so retrying a failed payment is just another call.
func (s *Service) Initiate(ctx context.Context, orderID string) (*InitiateResponse, error) {
	if !orderIDPattern.MatchString(orderID) {
		return nil, domain.ErrInvalidOrderID.WithDetail("order_id", orderID)
	}

	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentMethod != domain.PaymentMethodOnlineGateway {
		return nil, domain.ErrInvalidPaymentMethod.WithDetail("payment_method", string(order.PaymentMethod))
	}
	if !order.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount.WithDetail("amount", order.Amount.String())
	}
	if order.PaymentStatus == domain.PaymentStatusSuccess {
		return nil, domain.ErrAlreadyCompleted.WithDetail("order_id", orderID)
	}

	plaintext, err := s.builder.Build(order)
	if err != nil {
		return nil, err
	}

	encRequest, err := s.codec.Encrypt(plaintext)
	if err != nil {
		s.logger.Error("failed to encrypt gateway request",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("payment initiated",
		zap.String("order_id", orderID),
		zap.String("amount", order.Amount.StringFixed(2)),
		zap.String("currency", order.Currency),
		zap.String("status", string(order.PaymentStatus)),
	)

	return &InitiateResponse{
		PaymentURL: s.cfg.GatewayURL,
		EncRequest: encRequest,
		AccessCode: s.cfg.AccessCode,
		OrderID:    order.ID,
		Amount:     order.Amount,
		Currency:   order.Currency,
	}, nil
}

// HandleCallback decrypts and parses the gateway's callback payload, then
// reconciles it against the order store. Decode failures propagate to the
// caller; reconciliation anomalies (unknown order, duplicate callback) are
// reported through the outcome, not as errors.
func (s *Service) HandleCallback(ctx context.Context, encResponse string) (*CallbackOutcome, error) {
	result, err := s.parser.Parse(encResponse)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, result), nil
}

// Apply reconciles a decoded transaction result with the order store.
//
// Success is terminal: a duplicate or late callback for an already-successful
// order is ignored. The status write is an atomic conditional update so two
// near-simultaneous callbacks for the same order cannot both win.
func (s *Service) Apply(ctx context.Context, result *domain.TransactionResult) *CallbackOutcome {
	newStatus, terminal := result.MapStatus()

	for attempt := 0; attempt < casAttempts; attempt++ {
		order, err := s.store.Get(ctx, result.OrderID)
		if err != nil {
			if domain.IsNotFoundError(err) {
				s.logger.Warn("callback for unknown order",
					zap.String("order_id", result.OrderID),
					zap.String("order_status", result.OrderStatus),
				)
				return &CallbackOutcome{
					Outcome: OutcomeOrderNotFound,
					OrderID: result.OrderID,
					Reason:  "order not found",
				}
			}
			s.logger.Error("order lookup failed during reconciliation",
				zap.String("order_id", result.OrderID),
				zap.Error(err),
			)
			return &CallbackOutcome{
				Outcome: OutcomeError,
				OrderID: result.OrderID,
				Reason:  "order lookup failed",
			}
		}

		if order.PaymentStatus == domain.PaymentStatusSuccess {
			s.logger.Info("ignoring callback for already-successful order",
				zap.String("order_id", order.ID),
				zap.String("order_status", result.OrderStatus),
			)
			return &CallbackOutcome{
				Outcome: OutcomeAlreadyFinal,
				OrderID: order.ID,
				Status:  domain.PaymentStatusSuccess,
			}
		}

		if !terminal {
			// Gateway-side Pending carries no terminal state. Leave the order
			// untouched and keep the payload around in the logs.
			s.logger.Warn("no-op callback without terminal status",
				zap.String("order_id", order.ID),
				zap.String("order_status", result.OrderStatus),
			)
			return &CallbackOutcome{
				Outcome: OutcomeNoOp,
				OrderID: order.ID,
				Status:  order.PaymentStatus,
				Reason:  "payment_pending",
			}
		}

		details := s.buildDetails(order, result, newStatus)

		ok, err := s.store.CompareAndSetPaymentStatus(ctx, order.ID, order.PaymentStatus, newStatus, details)
		if err != nil {
			s.logger.Error("failed to persist payment status",
				zap.String("order_id", order.ID),
				zap.String("new_status", string(newStatus)),
				zap.Error(err),
			)
			return &CallbackOutcome{
				Outcome: OutcomeError,
				OrderID: order.ID,
				Reason:  "persistence failure",
			}
		}
		if !ok {
			// Lost the race against a concurrent callback; re-read and retry.
			continue
		}

		s.logger.Info("payment status reconciled",
			zap.String("order_id", order.ID),
			zap.String("from", string(order.PaymentStatus)),
			zap.String("to", string(newStatus)),
			zap.String("tracking_id", result.TrackingID),
		)

		outcome := &CallbackOutcome{
			Outcome: OutcomeApplied,
			OrderID: order.ID,
			Status:  newStatus,
		}
		if newStatus == domain.PaymentStatusFailure {
			outcome.Reason = result.FailureReason()
		}
		return outcome
	}

	s.logger.Error("reconciliation gave up after repeated CAS conflicts",
		zap.String("order_id", result.OrderID),
		zap.Int("attempts", casAttempts),
	)

	// A concurrent writer kept winning; the latest read decides what the
	// browser should see.
	order, err := s.store.Get(ctx, result.OrderID)
	if err != nil {
		return &CallbackOutcome{
			Outcome: OutcomeError,
			OrderID: result.OrderID,
			Reason:  "order lookup failed",
		}
	}
	if order.PaymentStatus == domain.PaymentStatusSuccess {
		return &CallbackOutcome{
			Outcome: OutcomeAlreadyFinal,
			OrderID: order.ID,
			Status:  domain.PaymentStatusSuccess,
		}
	}
	return &CallbackOutcome{
		Outcome: OutcomeError,
		OrderID: order.ID,
		Status:  order.PaymentStatus,
		Reason:  "reconciliation conflict",
	}
}

// buildDetails maps the transaction result onto the payment details record,
// flagging amount/currency discrepancies without blocking reconciliation:
// the gateway is the source of truth for what was actually charged.
func (s *Service) buildDetails(order *domain.Order, result *domain.TransactionResult, newStatus domain.PaymentStatus) *domain.PaymentDetails {
	details := &domain.PaymentDetails{
		TransactionID:       result.TrackingID,
		BankReferenceNumber: result.BankRefNo,
		PaymentDate:         s.parseTransDate(result.TransDate),
	}
	if newStatus == domain.PaymentStatusFailure {
		details.FailureReason = result.FailureReason()
	}

	if result.Amount != "" {
		confirmed, err := decimal.NewFromString(result.Amount)
		if err == nil {
			details.AmountConfirmed = &confirmed
			if !confirmed.Equal(order.Amount) {
				s.logger.Warn("gateway-reported amount differs from order amount",
					zap.String("order_id", order.ID),
					zap.String("order_amount", order.Amount.StringFixed(2)),
					zap.String("confirmed_amount", confirmed.StringFixed(2)),
				)
			}
		} else {
			s.logger.Warn("unparseable amount in callback",
				zap.String("order_id", order.ID),
				zap.String("amount", result.Amount),
			)
		}
	}
	if result.Currency != "" {
		details.CurrencyConfirmed = result.Currency
		if result.Currency != order.Currency {
			s.logger.Warn("gateway-reported currency differs from order currency",
				zap.String("order_id", order.ID),
				zap.String("order_currency", order.Currency),
				zap.String("confirmed_currency", result.Currency),
			)
		}
	}

	return details
}

func (s *Service) parseTransDate(raw string) time.Time {
	if raw != "" {
		if t, err := time.Parse(transDateLayout, raw); err == nil {
			return t
		}
		s.logger.Warn("unparseable trans_date in callback", zap.String("trans_date", raw))
	}
	return s.now()
}

// Cancel marks the order Cancelled unless it already completed successfully.
// Cancelling an already-cancelled or failed order is a no-op transition to
// Cancelled; the order remains payable through a later Initiate.
func (s *Service) Cancel(ctx context.Context, orderID string) error {
	if !orderIDPattern.MatchString(orderID) {
		return domain.ErrInvalidOrderID.WithDetail("order_id", orderID)
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		order, err := s.store.Get(ctx, orderID)
		if err != nil {
			return err
		}

		if order.PaymentStatus == domain.PaymentStatusSuccess {
			s.logger.Info("ignoring cancellation of already-successful order",
				zap.String("order_id", orderID),
			)
			return nil
		}
		if order.PaymentStatus == domain.PaymentStatusCancelled {
			return nil
		}

		ok, err := s.store.CompareAndSetPaymentStatus(ctx, orderID, order.PaymentStatus, domain.PaymentStatusCancelled, order.PaymentDetails)
		if err != nil {
			return err
		}
		if ok {
			s.logger.Info("payment cancelled",
				zap.String("order_id", orderID),
				zap.String("from", string(order.PaymentStatus)),
			)
			return nil
		}
	}

	// A concurrent callback kept winning; the latest read decides.
	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order.PaymentStatus == domain.PaymentStatusSuccess {
		return nil
	}
	return domain.ErrDatabaseError.WithDetail("order_id", orderID)
}

// GetStatus is a pure read of the order's payment state
func (s *Service) GetStatus(ctx context.Context, orderID string) (*StatusResponse, error) {
	if !orderIDPattern.MatchString(orderID) {
		return nil, domain.ErrInvalidOrderID.WithDetail("order_id", orderID)
	}

	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		OrderID:        order.ID,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		PaymentDetails: order.PaymentDetails,
		TotalPrice:     order.Amount,
	}, nil
}
