package content

import (
	"errors"
	"net/http"
)

// Errors a resolver reports to its handler. Anything not matched here is a
// backend failure and is answered with a generic 500.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrCMSManaged   = errors.New("this content is managed in the CMS; edit via CMS admin panel")
)

// StatusFor maps a resolver error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrCMSManaged):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor returns the caller-facing message for err. Backend failures
// never expose store or CMS detail.
func MessageFor(err error) string {
	switch StatusFor(err) {
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusBadRequest:
		return "Edit via CMS admin panel"
	default:
		return "Internal server error"
	}
}
