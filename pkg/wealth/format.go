package wealth

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// fr-FR groups thousands with a narrow no-break space and puts a
	// no-break space before the currency sign
	thousandsSep = "\u202f"
	currencySep  = "\u00a0"
)

// FormatEUR renders amount the way fr-FR does, e.g. "-1 234,56 €"
func FormatEUR(amount float64) string {
	d := decimal.NewFromFloat(finiteOrZero(amount)).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	intPart, decPart := parts[0], "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteString(thousandsSep)
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return sign + intPart + "," + decPart + currencySep + "€"
}

// FormatPercent renders a percentage with one decimal, e.g. "60,0 %"
func FormatPercent(p float64) string {
	fixed := decimal.NewFromFloat(finiteOrZero(p)).StringFixed(1)
	return strings.Replace(fixed, ".", ",", 1) + currencySep + "%"
}
