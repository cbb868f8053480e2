package domain

import "errors"

// Sentinel errors for store operations
var (
	// ErrStoreUnreachable indicates the remote store could not be contacted
	ErrStoreUnreachable = errors.New("ingredient store is unreachable")

	// ErrAuthFailed indicates the store rejected the configured credentials
	ErrAuthFailed = errors.New("store credentials were rejected")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrUnexpectedStatus indicates the store answered with a non-success status
	ErrUnexpectedStatus = errors.New("unexpected store response status")

	// ErrMalformedResponse indicates a success response whose body could not be used
	ErrMalformedResponse = errors.New("malformed store response")
)
