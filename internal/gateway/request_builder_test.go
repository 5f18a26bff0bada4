package gateway

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanserve/payments/internal/domain"
)

func testMerchantConfig() MerchantConfig {
	return MerchantConfig{
		MerchantID:  "M1001",
		AccessCode:  "AVXX01",
		GatewayURL:  "https://gateway.example.com/pay",
		RedirectURL: "https://shop.example.com/api/v1/payments/callback",
		CancelURL:   "https://shop.example.com/api/v1/payments/cancel",
	}
}

func TestRequestBuilder_Build(t *testing.T) {
	builder := NewRequestBuilder(testMerchantConfig())

	order := &domain.Order{
		ID:       "ORD-123",
		Amount:   decimal.RequireFromString("150.5"),
		Currency: "AED",
	}

	payload, err := builder.Build(order)
	require.NoError(t, err)

	// key order is part of the payload contract
	assert.Equal(t,
		"merchant_id=M1001"+
			"&order_id=ORD-123"+
			"&amount=150.50"+
			"&currency=AED"+
			"&redirect_url=https://shop.example.com/api/v1/payments/callback"+
			"&cancel_url=https://shop.example.com/api/v1/payments/cancel",
		payload)
}

func TestRequestBuilder_Build_AmountFormatting(t *testing.T) {
	builder := NewRequestBuilder(testMerchantConfig())

	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "whole_number", amount: "200", expected: "amount=200.00"},
		{name: "one_decimal", amount: "99.9", expected: "amount=99.90"},
		{name: "two_decimals", amount: "0.01", expected: "amount=0.01"},
		{name: "rounds_half_up_to_cents", amount: "10.005", expected: "amount=10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &domain.Order{
				ID:       "ORD-1",
				Amount:   decimal.RequireFromString(tt.amount),
				Currency: "AED",
			}
			payload, err := builder.Build(order)
			require.NoError(t, err)
			assert.Contains(t, payload, tt.expected)
		})
	}
}

func TestRequestBuilder_Build_Validation(t *testing.T) {
	builder := NewRequestBuilder(testMerchantConfig())

	tests := []struct {
		name         string
		order        *domain.Order
		expectedCode domain.ErrorCode
	}{
		{
			name:         "empty_order_id",
			order:        &domain.Order{ID: "", Amount: decimal.NewFromInt(10), Currency: "AED"},
			expectedCode: domain.ErrorCodeInvalidOrderID,
		},
		{
			name:         "zero_amount",
			order:        &domain.Order{ID: "ORD-1", Amount: decimal.Zero, Currency: "AED"},
			expectedCode: domain.ErrorCodeInvalidAmount,
		},
		{
			name:         "negative_amount",
			order:        &domain.Order{ID: "ORD-1", Amount: decimal.NewFromInt(-5), Currency: "AED"},
			expectedCode: domain.ErrorCodeInvalidAmount,
		},
		{
			name:         "empty_currency",
			order:        &domain.Order{ID: "ORD-1", Amount: decimal.NewFromInt(10), Currency: ""},
			expectedCode: domain.ErrorCodeInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builder.Build(tt.order)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, domain.GetErrorCode(err))
		})
	}
}
