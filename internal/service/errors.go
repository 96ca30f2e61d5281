package service

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyQuery      = errors.New("query must not be empty")
	ErrInvalidStatus   = errors.New("invalid status value")
)
