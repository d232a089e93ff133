package models

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateApplication = errors.New("already applied to this job")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidScore         = errors.New("overall score must be between 1 and 5")
	ErrUnsupportedMediaType = errors.New("only image files can be uploaded")
	ErrDuplicateMedia       = errors.New("image already belongs to another worker")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
)
