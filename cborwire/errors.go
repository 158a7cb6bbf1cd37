package cborwire

import (
	"errors"
	"strconv"
)

var (
	// ErrShortBytes is returned when the input ends inside an item.
	ErrShortBytes = errors.New("cborwire: too few bytes left to read object")
	// ErrIndefinite is returned for indefinite-length items, which this
	// package does not produce or accept.
	ErrIndefinite = errors.New("cborwire: indefinite-length items are not supported")
	// ErrReservedInfo is returned for the reserved additional-information
	// values 28..30.
	ErrReservedInfo = errors.New("cborwire: reserved additional information")
	// ErrMaxDepth is returned when Skip exceeds the nesting limit.
	ErrMaxDepth = errors.New("cborwire: max depth exceeded")
)

// InvalidPrefixError is returned when an item has an unexpected major type.
type InvalidPrefixError struct {
	Want uint8
	Got  uint8
}

// Error implements the error interface.
func (e InvalidPrefixError) Error() string {
	return "cborwire: expected major type " + strconv.Itoa(int(e.Want)) + " but got " + strconv.Itoa(int(e.Got))
}

// OverflowError is returned when a decoded integer or length does not fit
// the destination.
type OverflowError struct {
	Value   uint64
	Bitsize int
}

// Error implements the error interface.
func (e OverflowError) Error() string {
	return "cborwire: " + strconv.FormatUint(e.Value, 10) + " overflows " + strconv.Itoa(e.Bitsize) + " bits"
}

// FieldError annotates an error with the path of the field being decoded.
type FieldError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FieldError) Error() string { return e.Err.Error() + " at " + e.Path }

// Unwrap returns the cause.
func (e *FieldError) Unwrap() error { return e.Err }

// WrapError adds a field name to err. Nested calls build a path from the
// outermost field inwards ("Users/12/Name").
func WrapError(err error, field string) error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{Path: field + "/" + fe.Path, Err: fe.Err}
	}
	return &FieldError{Path: field, Err: err}
}
