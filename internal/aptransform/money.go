package aptransform

import (
	"strconv"
	"strings"
)

// parseMoney strips currency punctuation and parses the remainder as a
// float. Returns false for anything that is not a number.
func parseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatMoney renders without trailing zeros, so 12.0 prints as "12".
func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// finalAmount resolves the amount preference chain: explicit check
// request amount, then amount to be paid, then fee plus tax, then "0".
func finalAmount(checkRequest, amountToBePaid, fee, tax string) string {
	if v, ok := parseMoney(checkRequest); ok {
		return formatMoney(v)
	}
	if v, ok := parseMoney(amountToBePaid); ok {
		return formatMoney(v)
	}
	feeV, feeOK := parseMoney(fee)
	taxV, taxOK := parseMoney(tax)
	if feeOK || taxOK {
		return formatMoney(feeV + taxV)
	}
	return "0"
}
