package paysplit

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount strips thousands separators and parses the remainder as a
// decimal. Anything that is not a plain number fails with ErrMalformedAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrMalformedAmount)
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	return value, nil
}

// RateFor maps a currency label to its exchange rate. Only the local currency
// has rate 1; every other label gets the fixed foreign rate.
func RateFor(currency Currency) decimal.Decimal {
	if currency == CurrencyLocal {
		return localRate
	}
	return foreignRate
}

// taxCategory maps a tax row currency onto its derived category.
func taxCategory(currency Currency) (Category, bool) {
	switch currency {
	case CurrencyLocal:
		return CategoryTaxLocal, true
	case CurrencyForeign:
		return CategoryTaxForeign, true
	}
	return "", false
}
