package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrAgentNotFound      = errors.New("booking agent not found")
	ErrFlightNotFound     = errors.New("flight not found")
	ErrAirplaneNotFound   = errors.New("airplane not found")
	ErrNotAuthorized      = errors.New("not authorized to sell for this airline")
	ErrNoSeats            = errors.New("no available seats")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrPersistence        = errors.New("operation failed")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// UserMessage turns an error into the text shown to the end user. Unknown
// errors never leak their details.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return sentence(verr.Msg)
	}
	for _, known := range []error{
		ErrCustomerNotFound,
		ErrAgentNotFound,
		ErrFlightNotFound,
		ErrAirplaneNotFound,
		ErrNotAuthorized,
		ErrNoSeats,
		ErrAlreadyExists,
		ErrInvalidCredentials,
		ErrUserNotFound,
	} {
		if errors.Is(err, known) {
			return sentence(known.Error())
		}
	}
	return sentence(ErrPersistence.Error())
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}
