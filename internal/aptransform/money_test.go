package aptransform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$1,234.50", 1234.5, true},
		{" 12 ", 12, true},
		{"$ 0.99", 0.99, true},
		{"", 0, false},
		{"abc", 0, false},
		{"$", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseMoney(tt.in)
		assert.Equal(t, tt.ok, ok, "in=%q", tt.in)
		assert.Equal(t, tt.want, got, "in=%q", tt.in)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "12", formatMoney(12.0))
	assert.Equal(t, "12.5", formatMoney(12.5))
	assert.Equal(t, "0.1", formatMoney(0.1))
}

func TestFinalAmount(t *testing.T) {
	assert.Equal(t, "100", finalAmount("$100.00", "50", "10", "2"))
	assert.Equal(t, "50", finalAmount("", "$50", "10", "2"))
	assert.Equal(t, "12", finalAmount("", "", "$10", "2"))
	assert.Equal(t, "10", finalAmount("", "", "$10", ""))
	assert.Equal(t, "0", finalAmount("", "", "", ""))
	assert.Equal(t, "0", finalAmount("tbd", "unknown", "", ""))
}
