package payslip

import "errors"

var (
	ErrFontRequired = errors.New("payslip font is required")
	ErrInvalidFont  = errors.New("payslip font is not a TrueType or OpenType font")
)
