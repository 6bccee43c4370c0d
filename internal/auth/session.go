package auth

import "errors"

// ErrTokenInvalid is returned when a token was supplied but failed
// verification. A missing token is not an error; it just means anonymous.
var ErrTokenInvalid = errors.New("session expired or invalid, sign in again")

// Session is the per-request authenticated identity. It is derived from the
// credential token on every request and never persisted.
type Session struct {
	UserID int64
}

// Resolve turns an optional credential token into a session. An empty token
// yields (nil, nil): the anonymous context. A present token that fails
// verification is a hard error, never a silent fallback to anonymous.
func Resolve(codec TokenCodec, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := codec.Verify(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return &Session{UserID: claims.UserID}, nil
}
