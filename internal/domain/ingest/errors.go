package ingest

import "errors"

// ErrNoEvaluationWorkbook is reported when Process is given no evaluation
// workbook.
var ErrNoEvaluationWorkbook = errors.New("evaluation workbook is required")
