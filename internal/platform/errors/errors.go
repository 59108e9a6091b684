package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmptyQuery          = errors.New("empty query")
	ErrRequestFailed       = errors.New("request failed")
	ErrUnsupportedDocument = errors.New("unsupported document")
)
