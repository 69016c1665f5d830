package models

import "errors"

// Тексты ошибок уходят клиенту как есть, поэтому в них нет путей и деталей.
var (
	ErrNoFile           = errors.New("no file uploaded")
	ErrTooManyFiles     = errors.New("exactly one file expected")
	ErrTooLarge         = errors.New("file too large")
	ErrInvalidName      = errors.New("invalid file name")
	ErrNotFound         = errors.New("file not found")
	ErrConversionFailed = errors.New("conversion failed")
	ErrConverterBusy    = errors.New("converter busy")
)
