package payslip

import (
	"paysplit/internal/domain/paysplit"
)

type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

const (
	LabelPayable    = "應發金額"
	LabelDeductible = "應扣金額"
	LabelTotal      = "合計"
)

const salaryColumns = 5

var insuranceLabels = []string{
	"勞保投保", "勞保雇主", "勞保員工", "工資墊償",
	"健保投保", "健保雇主", "健保員工",
	"勞退提繳", "雇主%", "自提%", "勞退雇主", "勞退員工",
}

// Cell is one grid cell. Spans are at least 1.
type Cell struct {
	Text    string
	RowSpan int
	ColSpan int
	Align   Align
	Label   bool
}

type Row struct {
	Cells []Cell
}

// Table is a grid with relative column widths.
type Table struct {
	Caption string
	Widths  []float64
	Rows    []Row
}

func (t Table) Columns() int {
	return len(t.Widths)
}

// Document is the drawing-library independent payslip structure.
type Document struct {
	Title  string
	Tables []Table
}

// Salary returns the salary-detail grid.
func (d Document) Salary() Table {
	return d.Tables[1]
}

// Insurance returns the insurance-figures grid.
func (d Document) Insurance() Table {
	return d.Tables[2]
}

func cell(text string) Cell {
	return Cell{Text: text, RowSpan: 1, ColSpan: 1, Align: AlignCenter}
}

func label(text string) Cell {
	c := cell(text)
	c.Label = true
	return c
}

func amount(text string) Cell {
	c := cell(text)
	c.Align = AlignRight
	return c
}

func spacer(columns int) Row {
	c := cell("")
	c.ColSpan = columns
	return Row{Cells: []Cell{c}}
}

// Layout arranges a PaySplit into the payslip template.
func Layout(split paysplit.PaySplit, title string) Document {
	return Document{
		Title: title,
		Tables: []Table{
			employeeTable(split),
			salaryTable(split.SalaryDetail),
			insuranceTable(split.InsuranceDetail),
		},
	}
}

func employeeTable(split paysplit.PaySplit) Table {
	e := split.Employee
	return Table{
		Caption: "員工資料",
		Widths:  []float64{1, 1.5, 1, 1.5},
		Rows: []Row{
			{Cells: []Cell{label("薪資月份"), cell(split.MonthYear), label("員工編號"), cell(e.ID)}},
			{Cells: []Cell{label("員工姓名"), cell(e.Name), label("職稱"), cell(e.Title)}},
			{Cells: []Cell{label("管理部門編號"), cell(e.DepartmentID), label("管理部門"), cell(e.DepartmentName)}},
		},
	}
}

func salaryTable(detail paysplit.SalaryDetail) Table {
	rows := []Row{{Cells: []Cell{label("類別"), label("項目"), label("幣別"), label("匯率"), label("金額")}}}
	rows = append(rows, groupRows(LabelPayable, detail.Payable)...)
	rows = append(rows, spacer(salaryColumns))
	rows = append(rows, groupRows(LabelDeductible, detail.Deductible)...)
	rows = append(rows, spacer(salaryColumns))

	total := label(LabelTotal)
	total.ColSpan = 2
	rows = append(rows, Row{Cells: []Cell{
		total,
		cell(string(detail.Total.Currency)),
		cell(detail.Total.ExchangeRate.String()),
		amount(FormatAmount(detail.Total.Amount)),
	}})

	return Table{
		Caption: "薪資明細",
		Widths:  []float64{1.2, 2, 1.2, 1, 1.6},
		Rows:    rows,
	}
}

// groupRows emits one row per item; the first row opens with the group label
// merged vertically across the whole group.
func groupRows(name string, items []paysplit.SalaryDetailItem) []Row {
	rows := make([]Row, 0, len(items))
	for i, item := range items {
		cells := make([]Cell, 0, salaryColumns)
		if i == 0 {
			group := label(name)
			group.RowSpan = len(items)
			cells = append(cells, group)
		}
		cells = append(cells,
			cell(string(item.Category)),
			cell(string(item.Currency)),
			cell(item.ExchangeRate.String()),
			amount(FormatAmount(item.Amount)),
		)
		rows = append(rows, Row{Cells: cells})
	}
	return rows
}

func insuranceTable(detail paysplit.InsuranceDetail) Table {
	header := make([]Cell, 0, len(insuranceLabels))
	for _, text := range insuranceLabels {
		header = append(header, label(text))
	}
	values := make([]Cell, 0, len(insuranceLabels))
	for _, figure := range detail.Figures() {
		values = append(values, amount(FormatAmount(figure)))
	}

	widths := make([]float64, len(insuranceLabels))
	for i := range widths {
		widths[i] = 1
	}
	return Table{
		Caption: "保險明細",
		Widths:  widths,
		Rows:    []Row{{Cells: header}, {Cells: values}},
	}
}
