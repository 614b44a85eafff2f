package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("current password does not match")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Tree/Image related errors
	ErrTreeNotFound  = errors.New("tree not found")
	ErrTreeCodeTaken = errors.New("tree code already in use")
	ErrImageNotFound = errors.New("image not found")

	// Scan related errors
	ErrAnalysisNotFound = errors.New("analysis not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Trash related errors
	ErrTrashEntryNotFound = errors.New("trash entry not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
