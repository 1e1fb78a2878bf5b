package paysplit

import "errors"

var (
	ErrSourceUnavailable = errors.New("payroll document unavailable")
	ErrMissingSection    = errors.New("payroll document section missing")
	ErrMissingField      = errors.New("payroll document field missing")
	ErrMissingColumn     = errors.New("payroll row is missing expected columns")
	ErrUnexpectedColumn  = errors.New("payroll row has unexpected columns")
	ErrMalformedAmount   = errors.New("malformed amount")
)
