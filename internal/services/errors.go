package services

import "errors"

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrTokenSpaceExhausted = errors.New("could not allocate a unique token")
	ErrUnauthorizedActor   = errors.New("administrator identity required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)
