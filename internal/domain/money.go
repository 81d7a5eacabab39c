package domain

import "strconv"

// FormatMoney renders an amount with thousands separators and the pack's
// currency symbol, e.g. "$1,000,000".
func FormatMoney(symbol string, amount int) string {
	digits := strconv.Itoa(amount)
	if amount < 0 {
		return symbol + digits
	}
	var out []byte
	for i, c := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return symbol + string(out)
}
