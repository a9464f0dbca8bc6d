// Package format renders market numbers for display.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MaxPriceFractionDigits matches the usual locale default for plain numbers.
const MaxPriceFractionDigits = 3

// Number groups v the way lang writes numbers, keeping at most three fraction digits.
func Number(v float64, lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(MaxPriceFractionDigits)))
}

// USD prefixes a grouped amount with a dollar sign.
func USD(v float64, lang string) string {
	return "$" + Number(v, lang)
}

// Percent renders v with exactly two decimals, e.g. -1.5 → "-1.50%".
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// IsUp reports whether a change is shown as a gain. Zero counts as up.
func IsUp(v float64) bool {
	return v >= 0
}
