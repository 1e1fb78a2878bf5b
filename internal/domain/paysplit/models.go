package paysplit

import "github.com/shopspring/decimal"

func init() {
	// Amounts serialize as JSON numbers, matching the extension's payload.
	decimal.MarshalJSONWithoutQuotes = true
}

type Currency string

type Category string

type Employee struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	DepartmentID   string `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
}

type SalaryDetailItem struct {
	Category     Category        `json:"category"`
	Currency     Currency        `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Amount       decimal.Decimal `json:"amount"`
}

// Local returns the item amount converted to the local currency.
func (i SalaryDetailItem) Local() decimal.Decimal {
	return i.Amount.Mul(i.ExchangeRate)
}

type SalaryDetail struct {
	Payable    []SalaryDetailItem `json:"payable"`
	Deductible []SalaryDetailItem `json:"deductible"`
	Total      SalaryDetailItem   `json:"total"`
}

// Net is the local-currency sum of payable items minus deductible items.
func (d SalaryDetail) Net() decimal.Decimal {
	net := decimal.Zero
	for _, item := range d.Payable {
		net = net.Add(item.Local())
	}
	for _, item := range d.Deductible {
		net = net.Sub(item.Local())
	}
	return net
}

// Balanced reports whether the stated total matches Net.
func (d SalaryDetail) Balanced() bool {
	return d.Total.Local().Equal(d.Net())
}

type InsuranceDetail struct {
	LaborInsuranceInsured          decimal.Decimal `json:"laborInsuranceInsured"`
	LaborInsuranceEmployerCoverage decimal.Decimal `json:"laborInsuranceEmployerCoverage"`
	LaborInsuranceEmployeeCoverage decimal.Decimal `json:"laborInsuranceEmployeeCoverage"`
	LaborInsuranceEmployerAdvance  decimal.Decimal `json:"laborInsuranceEmployerAdvance"`

	HealthInsuranceInsured          decimal.Decimal `json:"healthInsuranceInsured"`
	HealthInsuranceEmployerCoverage decimal.Decimal `json:"healthInsuranceEmployerCoverage"`
	HealthInsuranceEmployeeCoverage decimal.Decimal `json:"healthInsuranceEmployeeCoverage"`

	LaborRetirementInsured                 decimal.Decimal `json:"laborRetirementInsured"`
	LaborRetirementEmployerCoveragePercent decimal.Decimal `json:"laborRetirementEmployerCoveragePercent"`
	LaborRetirementEmployeeCoveragePercent decimal.Decimal `json:"laborRetirementEmployeeCoveragePercent"`
	LaborRetirementEmployerCoverage        decimal.Decimal `json:"laborRetirementEmployerCoverage"`
	LaborRetirementEmployeeCoverage        decimal.Decimal `json:"laborRetirementEmployeeCoverage"`
}

// Figures returns the twelve insurance values in their on-page column order.
func (d InsuranceDetail) Figures() []decimal.Decimal {
	return []decimal.Decimal{
		d.LaborInsuranceInsured,
		d.LaborInsuranceEmployerCoverage,
		d.LaborInsuranceEmployeeCoverage,
		d.LaborInsuranceEmployerAdvance,
		d.HealthInsuranceInsured,
		d.HealthInsuranceEmployerCoverage,
		d.HealthInsuranceEmployeeCoverage,
		d.LaborRetirementInsured,
		d.LaborRetirementEmployerCoveragePercent,
		d.LaborRetirementEmployeeCoveragePercent,
		d.LaborRetirementEmployerCoverage,
		d.LaborRetirementEmployeeCoverage,
	}
}

type PaySplit struct {
	MonthYear       string          `json:"monthYear"`
	Employee        Employee        `json:"employee"`
	SalaryDetail    SalaryDetail    `json:"salaryDetail"`
	InsuranceDetail InsuranceDetail `json:"insuranceDetail"`
}
