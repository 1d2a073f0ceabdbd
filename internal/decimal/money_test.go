package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/satr/internal/decimal"
)

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	d, err = decimal.FromString(" 16.000000 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.NewFromInt(16)))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)

	_, err = decimal.FromString("")
	require.Error(t, err)
}

func TestFormatter_Format(t *testing.T) {
	f := decimal.NewFormatter("$", 2)

	tests := []struct {
		in       string
		expected string
	}{
		{"0", "$0.00"},
		{"116", "$116.00"},
		{"348.5", "$348.50"},
		{"1234.567", "$1,234.57"},
		{"1234567.891", "$1,234,567.89"},
		{"-1500.2", "-$1,500.20"},
		{"999.995", "$1,000.00"},
		{"123456789012345678901234.5", "$123,456,789,012,345,678,901,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Format(dec.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_NoPlaces(t *testing.T) {
	f := decimal.NewFormatter("", 0)
	assert.Equal(t, "12,346", f.Format(dec.RequireFromString("12345.6")))
}
