package payslip

const (
	DefaultTitle    = "財團法人國際合作發展基金會 薪資明細"
	DefaultFileName = "paysplit.pdf"

	fontFamily = "PayslipSans"
)

type Orientation string

const (
	Portrait  Orientation = "P"
	Landscape Orientation = "L"
)

type Margins struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// FontStyle is the font applied to one section of the payslip.
type FontStyle struct {
	Style string
	Size  float64
}

type Watermark struct {
	Path    string
	Width   float64
	Height  float64
	Opacity float64
}

// Config is the static visual template. Units are millimetres.
type Config struct {
	PageSize    string
	Orientation Orientation
	Margins     Margins
	RowHeight   float64
	SectionGap  float64

	// FontPath points at a TrueType font with CJK coverage. It is required:
	// every label on the template is Chinese.
	FontPath string

	Title     string
	TitleFont FontStyle
	LabelFont FontStyle
	BodyFont  FontStyle
	Watermark Watermark
}

func DefaultConfig() Config {
	return Config{
		PageSize:    "A4",
		Orientation: Portrait,
		Margins:     Margins{Left: 10, Top: 10, Right: 10, Bottom: 10},
		RowHeight:   7,
		SectionGap:  6,
		Title:       DefaultTitle,
		TitleFont:   FontStyle{Style: "", Size: 15},
		LabelFont:   FontStyle{Style: "", Size: 9},
		BodyFont:    FontStyle{Style: "", Size: 10},
		Watermark:   Watermark{Width: 40, Height: 40, Opacity: 0.1},
	}
}
