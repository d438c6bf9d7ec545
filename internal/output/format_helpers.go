package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a dollar amount with thousands separators.
func FormatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}

// FormatPercentage renders a percent value with two decimals and a sign.
func FormatPercentage(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
