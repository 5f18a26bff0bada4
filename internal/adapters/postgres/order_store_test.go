package postgres

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		numeric  pgtype.Numeric
		expected string
	}{
		{
			name:     "null_numeric_is_zero",
			numeric:  pgtype.Numeric{},
			expected: "0",
		},
		{
			name:     "two_decimal_places",
			numeric:  pgtype.Numeric{Int: big.NewInt(15050), Exp: -2, Valid: true},
			expected: "150.5",
		},
		{
			name:     "whole_number",
			numeric:  pgtype.Numeric{Int: big.NewInt(200), Exp: 0, Valid: true},
			expected: "200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := numericToDecimal(tt.numeric)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.String())
		})
	}
}

func TestTextOrNull(t *testing.T) {
	assert.Equal(t, pgtype.Text{String: "TRK-1", Valid: true}, textOrNull("TRK-1"))
	assert.Equal(t, pgtype.Text{String: "", Valid: false}, textOrNull(""))
}
