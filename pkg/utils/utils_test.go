package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLargeNumber(t *testing.T) {
	tests := []struct {
		name string
		num  *int64
		want string
	}{
		{name: "nil renders N/A", num: nil, want: "N/A"},
		{name: "below a thousand", num: ToPointer(int64(999)), want: "$999"},
		{name: "thousands", num: ToPointer(int64(1_500)), want: "$1.50K"},
		{name: "millions", num: ToPointer(int64(2_345_000)), want: "$2.35M"},
		{name: "billions", num: ToPointer(int64(1_500_000_000)), want: "$1.50B"},
		{name: "trillions", num: ToPointer(int64(2_100_000_000_000)), want: "$2.10T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLargeNumber(tt.num))
		})
	}
}

func TestSplitTickers(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{name: "empty string", csv: "", want: nil},
		{name: "whitespace only", csv: "   ", want: nil},
		{name: "single ticker", csv: "aapl", want: []string{"AAPL"}},
		{name: "mixed case with spaces", csv: " aapl, MSFT ,googl", want: []string{"AAPL", "MSFT", "GOOGL"}},
		{name: "empty entries dropped", csv: "AAPL,,MSFT,", want: []string{"AAPL", "MSFT"}},
		{name: "duplicates collapse to first occurrence", csv: "aapl,AAPL,msft, aapl ", want: []string{"AAPL", "MSFT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTickers(tt.csv))
		})
	}
}

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeTicker("  aapl "))
	assert.Equal(t, "", NormalizeTicker("   "))
}
