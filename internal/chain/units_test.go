package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0", FormatUnits(big.NewInt(0), 18))
	assert.Equal(t, "0.01", FormatUnits(big.NewInt(10_000_000_000_000_000), 18))
	assert.Equal(t, "1.5", FormatUnits(big.NewInt(1_500_000), 6))
	assert.Equal(t, "42", FormatUnits(big.NewInt(42), 0))
	assert.Equal(t, "0", FormatUnits(nil, 18))
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		in       string
		decimals uint8
		want     string
	}{
		{"0.01", 18, "10000000000000000"},
		{"1", 6, "1000000"},
		{"1.500", 6, "1500000"},
		{" 2 ", 0, "2"},
		{"0", 18, "0"},
	}
	for _, tc := range cases {
		got, err := ParseUnits(tc.in, tc.decimals)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.String(), tc.in)
	}
}

func TestParseUnitsRejectsExcessPrecision(t *testing.T) {
	_, err := ParseUnits("1.0000001", 6)
	assert.ErrorIs(t, err, ErrTooManyDecimals)

	_, err = ParseUnits("0.5", 0)
	assert.ErrorIs(t, err, ErrTooManyDecimals)
}

func TestParseUnitsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1,5", "0x10"} {
		_, err := ParseUnits(in, 18)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestAmountRoundTrip(t *testing.T) {
	raw, err := ParseUnits("123.456", 18)
	require.NoError(t, err)
	a := NewAmount(raw, 18)
	assert.Equal(t, "123.456", a.String())
	raw.SetInt64(0)
	assert.Equal(t, "123.456", a.String(), "NewAmount copies its input")
}
