package workbook

import "errors"

// Sentinel kinds for workbook errors.
var (
	ErrUnreadable = errors.New("workbook unreadable")
	ErrNoSheets   = errors.New("workbook has no sheets")
)
