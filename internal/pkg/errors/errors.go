package errors

import "errors"

var (
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyPrompt is returned when a request carries no usable prompt.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrEmptyCSV is returned when CSV input is missing or blank.
	ErrEmptyCSV = errors.New("csv data is required")
	// ErrUnsupportedFile rejects uploads that are neither CSV nor XLSX.
	ErrUnsupportedFile = errors.New("unsupported file type")
)
