package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrLocationNotFound   = errors.New("location not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)
