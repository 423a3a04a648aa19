package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed remote call.
type Kind int

const (
	KindUnavailable Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindInvalidCredentials
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrAuthorization      = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnavailable        = errors.New("remote unavailable")
)

// Error is a failure reported by the remote service. Reason carries the
// remote-supplied explanation, when there is one.
type Error struct {
	Kind   Kind
	Status int
	Reason string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return "remote unavailable: " + e.Reason
	}
	if e.Reason == "" {
		return fmt.Sprintf("remote error %d", e.Status)
	}
	return fmt.Sprintf("remote error %d: %s", e.Status, e.Reason)
}

// Is reports whether target is the sentinel matching e's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindValidation:
		return target == ErrValidation
	case KindAuthorization:
		return target == ErrAuthorization
	case KindNotFound:
		return target == ErrNotFound
	case KindInvalidCredentials:
		return target == ErrInvalidCredentials
	default:
		return target == ErrUnavailable
	}
}

// Reason returns the remote-supplied reason carried by err, falling back to
// err's own message.
func Reason(err error) string {
	var re *Error
	if errors.As(err, &re) && re.Reason != "" {
		return re.Reason
	}
	return err.Error()
}

func classifyStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthorization
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindUnavailable
	}
}
