package records

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrTransport  = errors.New("transport failure")
	ErrServer     = errors.New("server error")
	ErrRejected   = errors.New("request rejected")
	ErrMalformed  = errors.New("malformed response")
	ErrValidation = errors.New("invalid record")
)

// StatusError reports a non-2xx answer from the remote.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Code)
}

// Unwrap maps the status code onto the sentinel taxonomy.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusNotFound:
		return ErrNotFound
	case e.Code >= 500:
		return ErrServer
	default:
		return ErrRejected
	}
}

// ValidationError names the offending field of a rejected mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Kind returns a short label for err, used for metric labels and status text.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrServer):
		return "server"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}
