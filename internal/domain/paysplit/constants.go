package paysplit

import "github.com/shopspring/decimal"

const (
	CurrencyLocal   Currency = "新臺幣"
	CurrencyForeign Currency = "美金"

	CategoryBaseSalary      Category = "月支薪俸"
	CategoryHardshipAllow   Category = "艱苦加給"
	CategoryLaborInsurance  Category = "勞保費"
	CategoryHealthInsurance Category = "健保費"
	CategoryTaxLocal        Category = "稅額 - 新臺幣"
	CategoryTaxForeign      Category = "稅額 - 美金"
	CategoryGrandTotal      Category = "合計"
)

// Region selectors inside the embedded payroll frame.
const (
	SelectorPayable    = "#gvPayable"
	SelectorDeductible = "#gvDeductible"
	SelectorTax        = "#gvTax"
	SelectorInsurance  = "#gvInsurance"
	SelectorJobTitle   = "#txtJobTitle"
)

var (
	localRate = decimal.NewFromInt(1)
	// Fixed conversion for anything that is not the local currency; there is
	// no live exchange-rate lookup.
	foreignRate = decimal.NewFromInt(30)
)
