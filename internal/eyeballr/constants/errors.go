package constants

import (
	"errors"
)

var (
	ErrInvalidBody    = errors.New("Invalid body")
	ErrNotFound       = errors.New("Not found")
	ErrTooManyReq     = errors.New("Too many request")
	ErrServer         = errors.New("Server error")
	ErrUnknown        = errors.New("Unknown error")
	ErrMissingField   = errors.New("Missing field in response")
	ErrInvalidDataURI = errors.New("Invalid data URI")
	ErrReadyTimeout   = errors.New("Timed out waiting for readiness")
	ErrNotComplete    = errors.New("Gave up waiting for completion")
	ErrNoFiles        = errors.New("No file to upload")
)

// ParseError maps a response status to one of the sentinel errors. Any 2xx is success.
func ParseError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == 400:
		return ErrInvalidBody
	case status == 404:
		return ErrNotFound
	case status == 429:
		return ErrTooManyReq
	case status >= 500 && status < 600:
		return ErrServer
	default:
		return ErrUnknown
	}
}

// Status is the inverse of ParseError, used by the server side.
func Status(err error) int {
	switch {
	case err == nil:
		return 200
	case errors.Is(err, ErrInvalidBody), errors.Is(err, ErrInvalidDataURI):
		return 400
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrTooManyReq):
		return 429
	default:
		return 500
	}
}
