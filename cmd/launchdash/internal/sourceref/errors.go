package sourceref

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("source not found")
	ErrNotConfigured = errors.New("source ref lookup not configured")
)
