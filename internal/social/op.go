package social

import (
	"context"

	"github.com/CoolizzLuo/graphql-demo/internal/auth"
)

// Ctx is the per-request context handed to every operation: the request's
// context.Context plus the resolved session. Session is nil for anonymous
// requests.
type Ctx struct {
	Context context.Context
	Session *auth.Session
}

// Operation is the uniform signature all queries and mutations share, so
// guards can wrap any of them.
type Operation[A, R any] func(c *Ctx, args A) (R, error)

// NoArgs is the argument type of operations that take none.
type NoArgs struct{}

// PostIDArgs addresses a single post.
type PostIDArgs struct {
	PostID int64
}

// NameArgs addresses a user by name.
type NameArgs struct {
	Name string
}
