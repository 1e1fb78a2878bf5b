package paysplit

import "github.com/shopspring/decimal"

// SampleRecord is the reference payslip used for previews and layout checks.
func SampleRecord() PaySplit {
	item := func(category Category, currency Currency, amount int64) SalaryDetailItem {
		return SalaryDetailItem{
			Category:     category,
			Currency:     currency,
			ExchangeRate: RateFor(currency),
			Amount:       decimal.NewFromInt(amount),
		}
	}
	return PaySplit{
		MonthYear: "202407",
		Employee: Employee{
			ID:             "9527",
			Name:           "周星星",
			Title:          "專案經理",
			DepartmentID:   "D100",
			DepartmentName: "資訊處",
		},
		SalaryDetail: SalaryDetail{
			Payable: []SalaryDetailItem{
				item(CategoryBaseSalary, CurrencyLocal, 49999),
				item(CategoryHardshipAllow, CurrencyForeign, 999),
			},
			Deductible: []SalaryDetailItem{
				item(CategoryLaborInsurance, CurrencyLocal, 1200),
				item(CategoryHealthInsurance, CurrencyLocal, 800),
				item(CategoryTaxLocal, CurrencyLocal, 1728),
				item(CategoryTaxForeign, CurrencyForeign, 100),
			},
			Total: item(CategoryGrandTotal, CurrencyLocal, 73241),
		},
		InsuranceDetail: InsuranceDetail{
			LaborInsuranceInsured:                  decimal.NewFromInt(45800),
			LaborInsuranceEmployerCoverage:         decimal.NewFromInt(3847),
			LaborInsuranceEmployeeCoverage:         decimal.NewFromInt(1099),
			LaborInsuranceEmployerAdvance:          decimal.NewFromInt(11),
			HealthInsuranceInsured:                 decimal.NewFromInt(49800),
			HealthInsuranceEmployerCoverage:        decimal.NewFromInt(3012),
			HealthInsuranceEmployeeCoverage:        decimal.NewFromInt(773),
			LaborRetirementInsured:                 decimal.NewFromInt(50600),
			LaborRetirementEmployerCoveragePercent: decimal.NewFromInt(6),
			LaborRetirementEmployeeCoveragePercent: decimal.NewFromInt(0),
			LaborRetirementEmployerCoverage:        decimal.NewFromInt(3036),
			LaborRetirementEmployeeCoverage:        decimal.NewFromInt(0),
		},
	}
}
