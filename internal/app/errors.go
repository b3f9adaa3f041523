package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoData     = errors.New("session has no processed data")
	ErrNoUpload   = errors.New("evaluation workbook is required")

	ErrUnknownDimension = errors.New("unknown segmentation dimension")
)
