package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrTooLarge      = errors.New("upload too large")
	ErrMissingFile   = errors.New("missing evaluations file")
	ErrUnknownFormat = errors.New("unknown report format")
)

// Wrap attaches the operation name to err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind attaches the operation name and an error kind to err so callers
// can match either with errors.Is.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}
