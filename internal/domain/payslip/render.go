package payslip

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/sfnt"

	"paysplit/internal/domain/paysplit"
)

const watermarkImage = "watermark"

// Renderer draws payslips with gofpdf. Font and watermark files are read once
// when the renderer is built; drawing itself touches no files.
type Renderer struct {
	cfg       Config
	font      []byte
	face      *sfnt.Font
	watermark []byte
	now       func() time.Time
}

func NewRenderer(cfg Config) (*Renderer, error) {
	if strings.TrimSpace(cfg.FontPath) == "" {
		return nil, ErrFontRequired
	}
	data, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("load payslip font: %w", err)
	}
	face, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFont, cfg.FontPath, err)
	}

	r := &Renderer{cfg: cfg, font: data, face: face, now: time.Now}
	if cfg.Watermark.Path != "" {
		data, err := os.ReadFile(cfg.Watermark.Path)
		if err != nil {
			return nil, fmt.Errorf("load watermark: %w", err)
		}
		r.watermark = data
	}
	return r, nil
}

func (r *Renderer) Config() Config {
	return r.cfg
}

// Render lays out the record and draws it.
func (r *Renderer) Render(split paysplit.PaySplit) ([]byte, error) {
	return r.Draw(Layout(split, r.cfg.Title))
}

// Draw turns a laid-out document into PDF bytes. Errors from the drawing
// library are returned as-is.
func (r *Renderer) Draw(doc Document) ([]byte, error) {
	pdf, err := r.compose(doc, nil)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compose draws the document without serialising it. trace, when set, sees
// every cell rectangle as it is placed.
func (r *Renderer) compose(doc Document, trace func(x, y, w, h float64)) (*gofpdf.Fpdf, error) {
	if missing := r.MissingGlyphs(doc); len(missing) > 0 {
		slog.Warn("payslip font lacks glyphs", "font", r.cfg.FontPath, "runes", string(missing))
	}

	cfg := r.cfg
	pdf := gofpdf.New(string(cfg.Orientation), "mm", cfg.PageSize, "")
	pdf.SetMargins(cfg.Margins.Left, cfg.Margins.Top, cfg.Margins.Right)
	pdf.SetAutoPageBreak(false, cfg.Margins.Bottom)
	pdf.SetCreationDate(r.now())
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("paysplit", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", r.font)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", r.font)
	if len(r.watermark) > 0 {
		pdf.RegisterImageOptionsReader(watermarkImage, watermarkOptions(cfg.Watermark.Path), bytes.NewReader(r.watermark))
	}
	if pdf.Err() {
		return nil, pdf.Error()
	}

	d := drawer{pdf: pdf, cfg: cfg, trace: trace}
	pdf.AddPage()
	d.titleBar(doc.Title, len(r.watermark) > 0)
	for _, table := range doc.Tables {
		d.table(table)
	}
	if pdf.Err() {
		return nil, pdf.Error()
	}
	return pdf, nil
}

// MissingGlyphs lists, in order, the distinct runes of the document the
// configured font cannot draw.
func (r *Renderer) MissingGlyphs(doc Document) []rune {
	seen := make(map[rune]bool)
	var missing []rune
	var buf sfnt.Buffer
	check := func(text string) {
		for _, ch := range text {
			if seen[ch] || unicode.IsSpace(ch) {
				continue
			}
			seen[ch] = true
			if idx, err := r.face.GlyphIndex(&buf, ch); err != nil || idx == 0 {
				missing = append(missing, ch)
			}
		}
	}
	check(doc.Title)
	for _, table := range doc.Tables {
		check(table.Caption)
		for _, row := range table.Rows {
			for _, c := range row.Cells {
				check(c.Text)
			}
		}
	}
	slices.Sort(missing)
	return missing
}

func watermarkOptions(path string) gofpdf.ImageOptions {
	imageType := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
	return gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
}

type drawer struct {
	pdf   *gofpdf.Fpdf
	cfg   Config
	trace func(x, y, w, h float64)
}

func (d drawer) usableWidth() float64 {
	pageWidth, _ := d.pdf.GetPageSize()
	return pageWidth - d.cfg.Margins.Left - d.cfg.Margins.Right
}

func (d drawer) bottom() float64 {
	_, pageHeight := d.pdf.GetPageSize()
	return pageHeight - d.cfg.Margins.Bottom
}

func (d drawer) cell(x, y, w, h float64, text, border string, align Align, fill bool) {
	if d.trace != nil {
		d.trace(x, y, w, h)
	}
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, h, text, border, 0, string(align), fill, 0, "")
}

func (d drawer) titleBar(title string, watermark bool) {
	pdf := d.pdf
	left, top := d.cfg.Margins.Left, d.cfg.Margins.Top
	height := d.cfg.Watermark.Height
	if !watermark {
		height = d.cfg.RowHeight * 2
	}

	if watermark {
		wm := d.cfg.Watermark
		pdf.SetAlpha(wm.Opacity, "Normal")
		pdf.ImageOptions(watermarkImage, left+d.usableWidth()-wm.Width, top, wm.Width, wm.Height, false, gofpdf.ImageOptions{}, 0, "")
		pdf.SetAlpha(1, "Normal")
	}

	pdf.SetFont(fontFamily, d.cfg.TitleFont.Style, d.cfg.TitleFont.Size)
	d.cell(left, top, d.usableWidth(), height, title, "", AlignCenter, false)
	pdf.SetXY(left, top+height+d.cfg.SectionGap)
}

// table draws a grid honouring row and column spans, breaking pages between
// rows. A spanning cell cut by a page break is drawn again on the next page
// over its remaining rows.
func (d drawer) table(t Table) {
	pdf := d.pdf
	rowHeight := d.cfg.RowHeight
	left := d.cfg.Margins.Left

	offset := 0
	if t.Caption != "" {
		offset = 1
	}
	lines := len(t.Rows) + offset
	cells := place(t)
	perPage := capacity(d.bottom()-d.cfg.Margins.Top, rowHeight)

	joined := make([]bool, lines)
	if lines <= perPage {
		for i := range joined {
			joined[i] = true
		}
	} else {
		if offset == 1 {
			joined[0] = true
		}
		for _, c := range cells {
			for r := c.row; r < c.row+c.rowSpan-1; r++ {
				joined[r+offset] = true
			}
		}
	}

	edges := columnEdges(t.Widths, d.usableWidth())
	for _, seg := range paginate(joined, capacity(d.bottom()-pdf.GetY(), rowHeight), perPage) {
		if seg.newPage {
			pdf.AddPage()
		}
		top := pdf.GetY()
		lineY := func(line int) float64 { return top + float64(line-seg.start)*rowHeight }

		if seg.start < offset {
			pdf.SetFont(fontFamily, "B", d.cfg.LabelFont.Size)
			d.cell(left, lineY(0), d.usableWidth(), rowHeight, t.Caption, "", AlignLeft, false)
		}

		first, last := max(seg.start-offset, 0), seg.end-offset
		for _, c := range cells {
			from, to := max(c.row, first), min(c.row+c.rowSpan, last)
			if from >= to {
				continue
			}
			if c.Label {
				pdf.SetFont(fontFamily, d.cfg.LabelFont.Style, d.cfg.LabelFont.Size)
				pdf.SetFillColor(235, 235, 235)
			} else {
				pdf.SetFont(fontFamily, d.cfg.BodyFont.Style, d.cfg.BodyFont.Size)
			}
			x, w := left+edges[c.col], edges[c.col+c.colSpan]-edges[c.col]
			d.cell(x, lineY(from+offset), w, float64(to-from)*rowHeight, c.Text, "1", c.Align, c.Label)
		}
		pdf.SetXY(left, lineY(seg.end))
	}
	pdf.SetXY(left, pdf.GetY()+d.cfg.SectionGap)
}

// placed is a cell resolved to its grid position.
type placed struct {
	Cell
	row, col, rowSpan, colSpan int
}

// place resolves spans into grid positions. Spans are clipped to the table.
func place(t Table) []placed {
	columns := t.Columns()
	occupied := make(map[[2]int]bool)
	var out []placed
	for ri, row := range t.Rows {
		col := 0
		for _, c := range row.Cells {
			for occupied[[2]int{ri, col}] {
				col++
			}
			if col >= columns {
				break
			}
			colSpan := min(max(c.ColSpan, 1), columns-col)
			rowSpan := min(max(c.RowSpan, 1), len(t.Rows)-ri)
			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < colSpan; dc++ {
					occupied[[2]int{ri + dr, col + dc}] = true
				}
			}
			out = append(out, placed{Cell: c, row: ri, col: col, rowSpan: rowSpan, colSpan: colSpan})
			col += colSpan
		}
	}
	return out
}

// segment is a run of lines [start, end) drawn on one page.
type segment struct {
	start, end int
	newPage    bool
}

// paginate splits lines into page segments. joined[i] keeps lines i and i+1
// together; such a run is split only when it cannot fit on an empty page.
// first is the free line count on the current page, perPage on a fresh one.
func paginate(joined []bool, first, perPage int) []segment {
	perPage = max(perPage, 1)
	free := max(first, 0)
	var segs []segment
	var cur segment
	open, pending := false, false

	breakPage := func() {
		if open {
			segs = append(segs, cur)
			open = false
		}
		free, pending = perPage, true
	}
	emit := func(from, to int) {
		if !open {
			cur, open, pending = segment{start: from, newPage: pending}, true, false
		}
		cur.end = to
		free -= to - from
	}

	for start := 0; start < len(joined); {
		end := start + 1
		for end < len(joined) && joined[end-1] {
			end++
		}
		if size := end - start; size > free && size <= perPage {
			breakPage()
		}
		for start < end {
			if free == 0 {
				breakPage()
			}
			take := min(free, end-start)
			emit(start, start+take)
			start += take
		}
	}
	if open {
		segs = append(segs, cur)
	}
	return segs
}

// capacity is the number of whole rows that fit in height.
func capacity(height, rowHeight float64) int {
	if rowHeight <= 0 {
		return 0
	}
	return int((height + 1e-9) / rowHeight)
}

// columnEdges scales relative widths to the usable width and returns the
// running x offsets, one more than the number of columns.
func columnEdges(widths []float64, usable float64) []float64 {
	total := 0.0
	for _, w := range widths {
		total += w
	}
	edges := make([]float64, len(widths)+1)
	for i, w := range widths {
		edges[i+1] = edges[i] + w/total*usable
	}
	return edges
}
