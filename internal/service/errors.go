package service

import "errors"

var (
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidCurrentPassword = errors.New("invalid current password")
	ErrInvalidEmail           = errors.New("invalid email")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenInvalid           = errors.New("invalid token")
	ErrUserNotFound           = errors.New("user not found")
	ErrCodeNotFound           = errors.New("no pending code")
	ErrCodeExpired            = errors.New("code expired")
	ErrCodeMismatch           = errors.New("invalid code")
	ErrOfferNotFound          = errors.New("offer not found")
	ErrRateLimited            = errors.New("rate limited")
)
