package models

import "errors"

// ErrMissingInputFile is returned when the shipment workbook cannot be found.
// It is terminal for the refresh that hit it.
var ErrMissingInputFile = errors.New("input file not found")
