package detect

import "errors"

// Sentinel kinds for detection outcomes. ErrRosterSheet is a silent skip;
// every other kind should be surfaced as a warning.
var (
	ErrRosterSheet  = errors.New("roster sheet")
	ErrEmptySheet   = errors.New("empty sheet")
	ErrHeadersOnly  = errors.New("headers only, no data")
	ErrUnknownType  = errors.New("unknown evaluation type")
	ErrNoHeaderRow  = errors.New("no header row")
	ErrNoNameColumn = errors.New("no evaluated name column")
)

// Silent reports whether err is an intentional skip that needs no warning.
func Silent(err error) bool { return errors.Is(err, ErrRosterSheet) }
