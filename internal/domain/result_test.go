package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionResult_MapStatus(t *testing.T) {
	tests := []struct {
		name           string
		orderStatus    string
		expectedStatus PaymentStatus
		expectTerminal bool
	}{
		{
			name:           "success",
			orderStatus:    GatewayStatusSuccess,
			expectedStatus: PaymentStatusSuccess,
			expectTerminal: true,
		},
		{
			name:           "failure",
			orderStatus:    GatewayStatusFailure,
			expectedStatus: PaymentStatusFailure,
			expectTerminal: true,
		},
		{
			name:           "aborted_maps_to_failure",
			orderStatus:    GatewayStatusAborted,
			expectedStatus: PaymentStatusFailure,
			expectTerminal: true,
		},
		{
			name:           "pending_is_not_terminal",
			orderStatus:    GatewayStatusPending,
			expectedStatus: PaymentStatusPending,
			expectTerminal: false,
		},
		{
			name:           "absent_status_is_not_terminal",
			orderStatus:    "",
			expectedStatus: PaymentStatusPending,
			expectTerminal: false,
		},
		{
			name:           "unknown_status_fails_closed",
			orderStatus:    "Shipped",
			expectedStatus: PaymentStatusFailure,
			expectTerminal: true,
		},
		{
			name:           "case_sensitive_vocabulary",
			orderStatus:    "success",
			expectedStatus: PaymentStatusFailure,
			expectTerminal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &TransactionResult{OrderID: "ORD-1", OrderStatus: tt.orderStatus}
			status, terminal := result.MapStatus()
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectTerminal, terminal)
		})
	}
}

func TestTransactionResult_FailureReason(t *testing.T) {
	tests := []struct {
		name           string
		orderStatus    string
		failureMessage string
		expected       string
	}{
		{
			name:           "gateway_message_preferred",
			orderStatus:    GatewayStatusFailure,
			failureMessage: "insufficient funds",
			expected:       "insufficient funds",
		},
		{
			name:        "failure_without_message",
			orderStatus: GatewayStatusFailure,
			expected:    "payment Failure",
		},
		{
			name:        "aborted_without_message",
			orderStatus: GatewayStatusAborted,
			expected:    "payment Aborted",
		},
		{
			name:        "unknown_status",
			orderStatus: "Shipped",
			expected:    "unrecognized status: Shipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &TransactionResult{
				OrderStatus:    tt.orderStatus,
				FailureMessage: tt.failureMessage,
			}
			assert.Equal(t, tt.expected, result.FailureReason())
		})
	}
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.True(t, PaymentStatusSuccess.IsTerminal())
	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.False(t, PaymentStatusFailure.IsTerminal())
	assert.False(t, PaymentStatusCancelled.IsTerminal())
}

func TestOrder_IsPayable(t *testing.T) {
	tests := []struct {
		name     string
		method   PaymentMethod
		status   PaymentStatus
		expected bool
	}{
		{name: "gateway_pending", method: PaymentMethodOnlineGateway, status: PaymentStatusPending, expected: true},
		{name: "gateway_failure_retryable", method: PaymentMethodOnlineGateway, status: PaymentStatusFailure, expected: true},
		{name: "gateway_cancelled_retryable", method: PaymentMethodOnlineGateway, status: PaymentStatusCancelled, expected: true},
		{name: "gateway_success_not_payable", method: PaymentMethodOnlineGateway, status: PaymentStatusSuccess, expected: false},
		{name: "cash_on_delivery_never_payable", method: PaymentMethodCashOnDelivery, status: PaymentStatusPending, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{ID: "ORD-1", PaymentMethod: tt.method, PaymentStatus: tt.status}
			assert.Equal(t, tt.expected, order.IsPayable())
		})
	}
}
