package store

import "errors"

// Sentinel errors shared by every BookStore implementation.
var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookExists        = errors.New("book already exists")
	ErrMalformedDocument = errors.New("malformed book document")
	ErrClosed            = errors.New("store is closed")
)
