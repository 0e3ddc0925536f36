package service

import "errors"

var (
	// ErrMissingAPIKey is returned when no market data token is configured
	ErrMissingAPIKey = errors.New("finnhub API key is not configured")
	// ErrUnauthorized is returned when an operation needs a signed-in user
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned on a failed sign in
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailInUse is returned when signing up with a registered email
	ErrEmailInUse = errors.New("email already in use")
	// ErrNewsUnavailable is returned when general market news cannot be fetched
	ErrNewsUnavailable = errors.New("failed to fetch news")
)
