package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyGlyphs = strings.NewReplacer("₹", "", "$", "", "€", "", "£", "", "¥", "", ",", "")
	nonNumeric     = regexp.MustCompile(`[^\d.]`)
)

// ParseAmount converts a money-looking string such as "$1,234.56", "(45.00)" or "-12"
// into an exact decimal. The second return value is false when nothing numeric remains.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(currencyGlyphs.Replace(raw))

	negative := false
	switch {
	case len(cleaned) >= 2 && strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")"):
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	case strings.HasPrefix(cleaned, "-"):
		negative = true
		cleaned = cleaned[1:]
	}

	cleaned = nonNumeric.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, true
}

// FormatAmount renders an amount the way statements print it: thousands separators,
// two decimals and parentheses for negatives. ParseAmount reverses it for any value
// with at most two decimal places.
func FormatAmount(d decimal.Decimal) string {
	intPart, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac

	if d.IsNegative() {
		return "(" + out + ")"
	}
	return out
}
