package middleware

import (
	"context"
	"net/http"

	"github.com/CoolizzLuo/graphql-demo/internal/auth"
)

// TokenHeader carries the credential token, as in the original client
// contract.
const TokenHeader = "X-Token"

type ctxKey struct{}

// Session resolves the X-Token header into a per-request session and
// injects it into the request context. No header means anonymous; a header
// that fails verification ends the request with 401 before any handler
// runs.
func Session(codec auth.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := auth.Resolve(codec, r.Header.Get(TokenHeader))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"` + err.Error() + `"}`))
				return
			}
			if session != nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFrom returns the session resolved for this request, or nil for
// anonymous requests.
func SessionFrom(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(ctxKey{}).(*auth.Session)
	return s
}
