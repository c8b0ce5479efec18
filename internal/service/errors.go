package service

import "errors"

var (
	ErrNotFound           = errors.New("error not found")
	ErrForbidden          = errors.New("error access forbidden")
	ErrAlreadyExists      = errors.New("error already exists")
	ErrInvalidCredentials = errors.New("error invalid credentials")
	ErrUnauthorized       = errors.New("error unauthorized")
	ErrNoFieldsToUpdate   = errors.New("error no fields to update")
	ErrInvalidInput       = errors.New("error invalid input")
	ErrSelfDelete         = errors.New("error can't delete own account")
	ErrPriceUnavailable   = errors.New("error price unavailable")
	ErrOCRDisabled        = errors.New("error ocr is not configured")
)
