package paysplit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

var lineBreaks = regexp.MustCompile(`[ \t\p{Zs}]*(?:\r\n|\r|\n)+[ \t\p{Zs}]*`)

// Schema names the columns of a cleaned data row, in order. Columns named "_"
// are expected to be present but are never read.
type Schema []string

// Row is a cleaned data row bound to its schema.
type Row struct {
	region string
	schema Schema
	cells  []string
}

// Bind maps cleaned cells onto the schema. The cell count must match the
// schema exactly; a column added or removed upstream fails instead of shifting
// values into the wrong fields.
func (s Schema) Bind(region string, cells []string) (Row, error) {
	switch {
	case len(cells) < len(s):
		return Row{}, fmt.Errorf("%w: %s row has %d of %d columns (%s)", ErrMissingColumn, region, len(cells), len(s), strings.Join(s, ", "))
	case len(cells) > len(s):
		return Row{}, fmt.Errorf("%w: %s row has %d columns, expected %d (%s): extra %q", ErrUnexpectedColumn, region, len(cells), len(s), strings.Join(s, ", "), cells[len(s):])
	}
	return Row{region: region, schema: s, cells: cells}, nil
}

// Text returns the cell under the named column.
func (r Row) Text(name string) string {
	for i, column := range r.schema {
		if column == name {
			return r.cells[i]
		}
	}
	return ""
}

// Amount parses the named column as an amount.
func (r Row) Amount(name string) (decimal.Decimal, error) {
	value, err := ParseAmount(r.Text(name))
	if err != nil {
		return value, fmt.Errorf("%s %s: %w", r.region, name, err)
	}
	return value, nil
}

// dataRows returns the cleaned cells of every data row in the table. Header
// rows (any th cell) and rows left empty after cleaning are skipped.
func dataRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.ChildrenFiltered("th").Length() > 0 || tr.ChildrenFiltered("td").Length() == 0 {
			return
		}
		cells := cleanCells(tr.ChildrenFiltered("td"))
		if len(cells) == 0 {
			return
		}
		rows = append(rows, cells)
	})
	return rows
}

// cleanCells keeps visible, non-empty cell texts and drops the leading UI
// marker column.
func cleanCells(tds *goquery.Selection) []string {
	cells := make([]string, 0, tds.Length())
	tds.Each(func(_ int, td *goquery.Selection) {
		if isHidden(td) {
			return
		}
		text := cellText(td)
		if text == "" {
			return
		}
		cells = append(cells, text)
	})
	if len(cells) == 0 {
		return nil
	}
	return cells[1:]
}

func isHidden(s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	style := strings.ToLower(strings.Join(strings.Fields(s.AttrOr("style", "")), ""))
	return strings.Contains(style, "display:none")
}

// cellText collects the cell's text, trims it and folds line breaks into a
// single space.
func cellText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		collectText(n, &b)
	}
	text := lineBreaks.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "template":
			return
		case "br":
			b.WriteString("\n")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
