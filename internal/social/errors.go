package social

import (
	"errors"
	"net/http"

	"github.com/CoolizzLuo/graphql-demo/internal/auth"
)

// Domain failures surfaced to the caller. The HTTP boundary maps them to
// status codes; nothing retries them.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrSelfFriend         = errors.New("cannot befriend yourself")
	ErrAccountNotFound    = errors.New("no account for that email")
	ErrInvalidCredentials = errors.New("wrong email or password")
)

// HTTPStatus maps a domain failure to its response status. Unrecognized
// errors are treated as internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotAuthenticated),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrAlreadyFriends),
		errors.Is(err, ErrSelfFriend):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
