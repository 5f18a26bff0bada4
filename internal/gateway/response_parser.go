package gateway

import (
	"strings"

	"github.com/urbanserve/payments/internal/domain"
)

// ResponseParser turns the gateway's encrypted callback payload into a typed
// transaction result.
type ResponseParser struct {
	codec *Codec
}

// NewResponseParser creates a parser bound to the merchant codec
func NewResponseParser(codec *Codec) *ResponseParser {
	return &ResponseParser{codec: codec}
}

// Parse decrypts rawEncResponse and extracts the transaction fields. A
// missing order_id is a hard failure because there is nothing to reconcile
// against; every other field defaults to empty.
func (p *ResponseParser) Parse(rawEncResponse string) (*domain.TransactionResult, error) {
	plaintext, err := p.codec.Decrypt(rawEncResponse)
	if err != nil {
		return nil, err
	}

	fields := parseKeyValues(plaintext)

	if fields["order_id"] == "" {
		return nil, domain.ErrMissingOrderID
	}

	return &domain.TransactionResult{
		OrderID:        fields["order_id"],
		TrackingID:     fields["tracking_id"],
		BankRefNo:      fields["bank_ref_no"],
		OrderStatus:    fields["order_status"],
		FailureMessage: fields["failure_message"],
		Amount:         fields["amount"],
		Currency:       fields["currency"],
		TransDate:      fields["trans_date"],
	}, nil
}

// parseKeyValues splits key=value&... plaintext into a map. The last
// occurrence of a duplicate key wins. Pairs without '=' are ignored.
func parseKeyValues(s string) map[string]string {
	fields := make(map[string]string)
	for _, pair := range strings.Split(s, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		fields[key] = value
	}
	return fields
}
