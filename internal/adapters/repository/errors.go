package repository

import "errors"

// Sentinel kinds for history storage errors.
var (
	ErrEmptyPath     = errors.New("history path is empty")
	ErrUnknownFormat = errors.New("unknown history format")
	ErrWriteHistory  = errors.New("write history failed")
	ErrReadHistory   = errors.New("read history failed")
)
