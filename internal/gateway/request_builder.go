package gateway

import (
	"strings"

	"github.com/urbanserve/payments/internal/domain"
)

// MerchantConfig carries the merchant-side parameters for the hosted gateway.
// The access code is sent alongside the encrypted payload per the gateway
// contract; the working key never leaves the codec.
type MerchantConfig struct {
	MerchantID  string
	AccessCode  string
	GatewayURL  string
	RedirectURL string
	CancelURL   string
}

// RequestBuilder assembles the plaintext payload sent to the gateway for an
// order. Values are joined raw; form escaping happens only in the final
// browser form post, never here.
type RequestBuilder struct {
	cfg MerchantConfig
}

// NewRequestBuilder creates a request builder for the given merchant
func NewRequestBuilder(cfg MerchantConfig) *RequestBuilder {
	return &RequestBuilder{cfg: cfg}
}

// Build produces the ordered key=value&... plaintext for the order. Amounts
// are formatted with two decimal places as the gateway requires.
func (b *RequestBuilder) Build(order *domain.Order) (string, error) {
	if order.ID == "" {
		return "", domain.ErrInvalidOrderID
	}
	if !order.Amount.IsPositive() {
		return "", domain.ErrInvalidAmount.WithDetail("amount", order.Amount.String())
	}
	if order.Currency == "" {
		return "", domain.ErrInvalidCurrency
	}

	pairs := []string{
		"merchant_id=" + b.cfg.MerchantID,
		"order_id=" + order.ID,
		"amount=" + order.Amount.StringFixed(2),
		"currency=" + order.Currency,
		"redirect_url=" + b.cfg.RedirectURL,
		"cancel_url=" + b.cfg.CancelURL,
	}

	return strings.Join(pairs, "&"), nil
}
