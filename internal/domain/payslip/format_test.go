package payslip

import (
	"testing"

	"github.com/shopspring/decimal"

	"paysplit/internal/domain/paysplit"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "73241", want: "73,241"},
		{in: "1999000", want: "1,999,000"},
		{in: "999", want: "999"},
		{in: "0", want: "0"},
		{in: "1234.5", want: "1,234.50"},
		{in: "0.1", want: "0.10"},
		{in: "0.005", want: "0.01"},
		{in: "1234.999", want: "1,235.00"},
		{in: "-1200.25", want: "-1,200.25"},
		{in: "-1200", want: "-1,200"},
		{in: "1234567890123456.78", want: "1,234,567,890,123,456.78"},
		{in: "98765432109876543210.5", want: "98,765,432,109,876,543,210.50"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := FormatAmount(decimal.RequireFromString(tc.in))
			if got != tc.want {
				t.Fatalf("FormatAmount(%s): expected %q, got %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	split := paysplit.SampleRecord()
	if got := FileName(&split); got != "202407-周星星-paysplit.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := FileName(nil); got != DefaultFileName {
		t.Fatalf("expected fallback name, got %q", got)
	}

	split.Employee.Name = "a/b"
	if got := FileName(&split); got != "202407-a_b-paysplit.pdf" {
		t.Fatalf("expected separators replaced, got %q", got)
	}
}
