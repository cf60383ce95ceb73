package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatBaht(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "฿0.00"},
		{"299", "฿299.00"},
		{"1234.5", "฿1,234.50"},
		{"959.789", "฿959.79"},
		{"1000000", "฿1,000,000.00"},
		{"-62.79", "-฿62.79"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBaht(decimal.RequireFromString(tt.in)), tt.in)
	}
}
