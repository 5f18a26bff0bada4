package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanserve/payments/internal/domain"
)

func encryptPayload(t *testing.T, codec *Codec, payload string) string {
	t.Helper()
	encoded, err := codec.Encrypt(payload)
	require.NoError(t, err)
	return encoded
}

func TestResponseParser_Parse(t *testing.T) {
	codec := NewCodec(testWorkingKey)
	parser := NewResponseParser(codec)

	payload := "order_id=ORD-42" +
		"&tracking_id=TRK-9001" +
		"&bank_ref_no=BR-777" +
		"&order_status=Success" +
		"&failure_message=" +
		"&amount=150.00" +
		"&currency=AED" +
		"&trans_date=21/08/2026 14:30:05"

	result, err := parser.Parse(encryptPayload(t, codec, payload))
	require.NoError(t, err)

	assert.Equal(t, "ORD-42", result.OrderID)
	assert.Equal(t, "TRK-9001", result.TrackingID)
	assert.Equal(t, "BR-777", result.BankRefNo)
	assert.Equal(t, "Success", result.OrderStatus)
	assert.Empty(t, result.FailureMessage)
	assert.Equal(t, "150.00", result.Amount)
	assert.Equal(t, "AED", result.Currency)
	assert.Equal(t, "21/08/2026 14:30:05", result.TransDate)
}

func TestResponseParser_Parse_MissingFieldsDefaultEmpty(t *testing.T) {
	codec := NewCodec(testWorkingKey)
	parser := NewResponseParser(codec)

	result, err := parser.Parse(encryptPayload(t, codec, "order_id=ORD-1"))
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", result.OrderID)
	assert.Empty(t, result.TrackingID)
	assert.Empty(t, result.OrderStatus)
	assert.Empty(t, result.Amount)
}

func TestResponseParser_Parse_DuplicateKeyLastWins(t *testing.T) {
	codec := NewCodec(testWorkingKey)
	parser := NewResponseParser(codec)

	payload := "order_id=ORD-1&order_status=Failure&order_status=Success"
	result, err := parser.Parse(encryptPayload(t, codec, payload))
	require.NoError(t, err)

	assert.Equal(t, "Success", result.OrderStatus)
}

func TestResponseParser_Parse_MalformedPairsIgnored(t *testing.T) {
	codec := NewCodec(testWorkingKey)
	parser := NewResponseParser(codec)

	payload := "junk&order_id=ORD-1&&=orphan&order_status=Failure"
	result, err := parser.Parse(encryptPayload(t, codec, payload))
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", result.OrderID)
	assert.Equal(t, "Failure", result.OrderStatus)
}

func TestResponseParser_Parse_MissingOrderID(t *testing.T) {
	codec := NewCodec(testWorkingKey)
	parser := NewResponseParser(codec)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "no_order_id_key", payload: "order_status=Success&tracking_id=TRK-1"},
		{name: "empty_order_id", payload: "order_id=&order_status=Success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(encryptPayload(t, codec, tt.payload))
			require.Error(t, err)
			assert.Equal(t, domain.ErrorCodeMissingOrderID, domain.GetErrorCode(err))
		})
	}
}

func TestResponseParser_Parse_UndecryptablePayload(t *testing.T) {
	parser := NewResponseParser(NewCodec(testWorkingKey))

	_, err := parser.Parse("not-hex-at-all")
	require.Error(t, err)
	assert.True(t, domain.IsCryptoError(err))
}
