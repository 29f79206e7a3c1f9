// Package errhttp maps domain sentinel errors to HTTP status codes for the
// JSON API. Add a case to mapErrorToStatus for each new domain sentinel.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/wishlist/pkg/httpx"
	wishdomain "github.com/ghuser/wishlist/services/wishlist/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Wrapped sentinels are matched with errors.Is. Unrecognized errors are 500.
// In production the message of a 5xx is replaced by the status text.
func WriteError(w http.ResponseWriter, err error, isProduction bool) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, isProduction))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, wishdomain.ErrWishNotFound):
		return http.StatusNotFound
	case errors.Is(err, wishdomain.ErrInvalidWish):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wishdomain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
