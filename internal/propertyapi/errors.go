package propertyapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/090809/apartments-web/internal/propertyapi/helpers"
	"github.com/090809/apartments-web/pkg/auth"
)

type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindStatus
	KindUnauthorized
	KindMalformed
	KindNoToken
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindUnauthorized:
		return "unauthorized"
	case KindMalformed:
		return "malformed"
	case KindNoToken:
		return "no_token"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the failure half of every API call. Views branch on Kind.
type Error struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of an API error; anything unrecognised counts as transport.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindTransport
}

var (
	ErrTokenNotFound = errors.New("token not found in response data")
	errMalformed     = errors.New("received data is not valid")
)

func classify(op string, err error) *Error {
	var statusErr *helpers.StatusError
	var decodeErr *helpers.DecodeError

	switch {
	case errors.Is(err, auth.ErrNoToken):
		return &Error{Op: op, Kind: KindNoToken, Err: err}
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized:
		return &Error{Op: op, Kind: KindUnauthorized, StatusCode: statusErr.StatusCode, Err: err}
	case errors.As(err, &statusErr):
		return &Error{Op: op, Kind: KindStatus, StatusCode: statusErr.StatusCode, Err: err}
	case errors.As(err, &decodeErr):
		return &Error{Op: op, Kind: KindMalformed, Err: err}
	default:
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
}
