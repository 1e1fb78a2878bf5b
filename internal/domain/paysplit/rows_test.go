package paysplit

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustTable(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table id=\"t\">" + markup + "</table>"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc.Find("#t")
}

func TestDataRowsCleansCells(t *testing.T) {
	table := mustTable(t, `
		<tr><th>#</th><th>項目</th></tr>
		<tr>
			<td>1</td>
			<td style="DISPLAY: none">hidden</td>
			<td hidden>also hidden</td>
			<td>  月支薪俸 </td>
			<td></td>
			<td>應稅<br>
			    所得</td>
			<td>line
			break</td>
		</tr>
		<tr><td> </td><td></td></tr>
	`)

	rows := dataRows(table)
	want := [][]string{{"月支薪俸", "應稅 所得", "line break"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestDataRowsSkipsMarkerOnlyRows(t *testing.T) {
	table := mustTable(t, `<tr><td>1</td><td></td></tr><tr><td>2</td><td>健保費</td></tr>`)
	rows := dataRows(table)
	if len(rows) != 1 || rows[0][0] != "健保費" {
		t.Fatalf("expected only the populated row, got %#v", rows)
	}
}

func TestSchemaBind(t *testing.T) {
	schema := Schema{"category", "currency", "_", "amount"}

	row, err := schema.Bind("payable", []string{"艱苦加給", "美金", "免稅", "999"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Text("category") != "艱苦加給" || row.Text("currency") != "美金" {
		t.Fatalf("unexpected row binding: %+v", row)
	}
	amount, err := row.Amount("amount")
	if err != nil || amount.String() != "999" {
		t.Fatalf("expected amount 999, got %v (%v)", amount, err)
	}

	if _, err := schema.Bind("payable", []string{"艱苦加給", "美金", "999"}); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if _, err := schema.Bind("payable", []string{"月支薪俸", "新臺幣", "應稅", "49,999", "1,000"}); !errors.Is(err, ErrUnexpectedColumn) {
		t.Fatalf("expected ErrUnexpectedColumn, got %v", err)
	}
}

func TestRowAmountWrapsRegion(t *testing.T) {
	row, err := Schema{"amount"}.Bind("total", []string{"abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = row.Amount("amount")
	if !errors.Is(err, ErrMalformedAmount) {
		t.Fatalf("expected ErrMalformedAmount, got %v", err)
	}
	if !strings.Contains(err.Error(), "total amount") {
		t.Fatalf("expected region in error, got %q", err.Error())
	}
}
