package paysplit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

var (
	payableSchema    = Schema{"category", "currency", "_", "amount"}
	deductibleSchema = Schema{"category", "currency", "amount"}
	taxSchema        = Schema{"label", "currency", "amount"}
	totalSchema      = Schema{"amount"}
	employeeSchema   = Schema{"monthYear", "id", "name", "departmentId", "departmentName"}
	insuranceSchema  = Schema{
		"laborInsuranceInsured",
		"laborInsuranceEmployerCoverage",
		"laborInsuranceEmployeeCoverage",
		"laborInsuranceEmployerAdvance",
		"healthInsuranceInsured",
		"healthInsuranceEmployerCoverage",
		"healthInsuranceEmployeeCoverage",
		"laborRetirementInsured",
		"laborRetirementEmployerCoveragePercent",
		"laborRetirementEmployeeCoveragePercent",
		"laborRetirementEmployerCoverage",
		"laborRetirementEmployeeCoverage",
	}
)

// Extract reads the payroll frame document into a PaySplit. It either returns
// a fully populated record or an error; nothing is returned partially.
func Extract(doc *goquery.Document) (PaySplit, error) {
	if doc == nil || doc.Selection == nil {
		return PaySplit{}, ErrSourceUnavailable
	}

	regions := make(map[string]*goquery.Selection, 4)
	for _, selector := range []string{SelectorPayable, SelectorDeductible, SelectorTax, SelectorInsurance} {
		region := doc.Find(selector).First()
		if region.Length() == 0 {
			return PaySplit{}, fmt.Errorf("%w: %s", ErrMissingSection, selector)
		}
		regions[selector] = region
	}

	titleField := doc.Find(SelectorJobTitle).First()
	if titleField.Length() == 0 {
		return PaySplit{}, fmt.Errorf("%w: %s", ErrMissingField, SelectorJobTitle)
	}

	payable, err := extractItems("payable", regions[SelectorPayable], payableSchema)
	if err != nil {
		return PaySplit{}, err
	}
	deductible, err := extractItems("deductible", regions[SelectorDeductible], deductibleSchema)
	if err != nil {
		return PaySplit{}, err
	}
	taxes, total, err := extractTaxes(regions[SelectorTax])
	if err != nil {
		return PaySplit{}, err
	}
	monthYear, employee, insurance, err := extractInsurance(regions[SelectorInsurance])
	if err != nil {
		return PaySplit{}, err
	}
	employee.Title = strings.TrimSpace(titleField.AttrOr("value", ""))

	split := PaySplit{
		MonthYear: monthYear,
		Employee:  employee,
		SalaryDetail: SalaryDetail{
			Payable:    payable,
			Deductible: append(deductible, taxes...),
			Total:      total,
		},
		InsuranceDetail: insurance,
	}
	if !split.SalaryDetail.Balanced() {
		slog.Warn("paysplit total does not match items",
			"monthYear", split.MonthYear,
			"employeeId", split.Employee.ID,
			"total", split.SalaryDetail.Total.Amount.String(),
			"net", split.SalaryDetail.Net().String())
	}
	return split, nil
}

func extractItems(region string, table *goquery.Selection, schema Schema) ([]SalaryDetailItem, error) {
	rows := dataRows(table)
	items := make([]SalaryDetailItem, 0, len(rows))
	for _, cells := range rows {
		row, err := schema.Bind(region, cells)
		if err != nil {
			return nil, err
		}
		amount, err := row.Amount("amount")
		if err != nil {
			return nil, err
		}
		currency := Currency(row.Text("currency"))
		items = append(items, SalaryDetailItem{
			Category:     Category(row.Text("category")),
			Currency:     currency,
			ExchangeRate: RateFor(currency),
			Amount:       amount,
		})
	}
	return items, nil
}

// extractTaxes turns the tax rows into deductible items and reads the grand
// total from the region's final row.
func extractTaxes(table *goquery.Selection) ([]SalaryDetailItem, SalaryDetailItem, error) {
	rows := dataRows(table)
	if len(rows) == 0 {
		return nil, SalaryDetailItem{}, fmt.Errorf("%w: %s has no total row", ErrMissingSection, SelectorTax)
	}

	totalRow, err := totalSchema.Bind("total", rows[len(rows)-1])
	if err != nil {
		return nil, SalaryDetailItem{}, err
	}
	totalAmount, err := totalRow.Amount("amount")
	if err != nil {
		return nil, SalaryDetailItem{}, err
	}

	var taxes []SalaryDetailItem
	for _, cells := range rows[:len(rows)-1] {
		row, err := taxSchema.Bind("tax", cells)
		if err != nil {
			return nil, SalaryDetailItem{}, err
		}
		currency := Currency(row.Text("currency"))
		category, ok := taxCategory(currency)
		if !ok {
			continue
		}
		amount, err := row.Amount("amount")
		if err != nil {
			return nil, SalaryDetailItem{}, err
		}
		taxes = append(taxes, SalaryDetailItem{
			Category:     category,
			Currency:     currency,
			ExchangeRate: RateFor(currency),
			Amount:       amount,
		})
	}

	total := SalaryDetailItem{
		Category:     CategoryGrandTotal,
		Currency:     CurrencyLocal,
		ExchangeRate: RateFor(CurrencyLocal),
		Amount:       totalAmount,
	}
	return taxes, total, nil
}

func extractInsurance(table *goquery.Selection) (string, Employee, InsuranceDetail, error) {
	rows := dataRows(table)
	if len(rows) < 2 {
		return "", Employee{}, InsuranceDetail{}, fmt.Errorf("%w: %s needs an employee row and a figures row, found %d rows", ErrMissingSection, SelectorInsurance, len(rows))
	}

	header, err := employeeSchema.Bind("employee", rows[0])
	if err != nil {
		return "", Employee{}, InsuranceDetail{}, err
	}
	employee := Employee{
		ID:             header.Text("id"),
		Name:           header.Text("name"),
		DepartmentID:   header.Text("departmentId"),
		DepartmentName: header.Text("departmentName"),
	}

	figures, err := insuranceSchema.Bind("insurance", rows[1])
	if err != nil {
		return "", Employee{}, InsuranceDetail{}, err
	}
	values := make([]decimal.Decimal, len(insuranceSchema))
	for i, name := range insuranceSchema {
		if values[i], err = figures.Amount(name); err != nil {
			return "", Employee{}, InsuranceDetail{}, err
		}
	}

	detail := InsuranceDetail{
		LaborInsuranceInsured:                  values[0],
		LaborInsuranceEmployerCoverage:         values[1],
		LaborInsuranceEmployeeCoverage:         values[2],
		LaborInsuranceEmployerAdvance:          values[3],
		HealthInsuranceInsured:                 values[4],
		HealthInsuranceEmployerCoverage:        values[5],
		HealthInsuranceEmployeeCoverage:        values[6],
		LaborRetirementInsured:                 values[7],
		LaborRetirementEmployerCoveragePercent: values[8],
		LaborRetirementEmployeeCoveragePercent: values[9],
		LaborRetirementEmployerCoverage:        values[10],
		LaborRetirementEmployeeCoverage:        values[11],
	}
	return header.Text("monthYear"), employee, detail, nil
}
