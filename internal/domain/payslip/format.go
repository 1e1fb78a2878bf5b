package payslip

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"paysplit/internal/domain/paysplit"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a monetary amount with grouping separators. Whole
// amounts carry no fraction digits; others are rounded half away from zero
// to two places without passing through a float.
func FormatAmount(amount decimal.Decimal) string {
	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}
	abs := amount.Abs()
	if abs.IsInteger() {
		return sign + groupDigits(abs)
	}
	fixed := abs.StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.'):]
	return sign + groupDigits(abs.Round(2).Truncate(0)) + frac
}

// groupDigits formats a non-negative whole decimal with thousands separators.
func groupDigits(whole decimal.Decimal) string {
	if n := whole.BigInt(); n.IsInt64() {
		return printer.Sprintf("%d", n.Int64())
	}
	digits := whole.String()
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

// FileName derives the output file name from the pay period and employee.
// A nil record gets the static fallback name.
func FileName(split *paysplit.PaySplit) string {
	if split == nil {
		return DefaultFileName
	}
	name := split.MonthYear + "-" + split.Employee.Name + "-paysplit.pdf"
	return fileNameReplacer.Replace(name)
}
