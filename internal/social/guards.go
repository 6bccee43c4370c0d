package social

import "github.com/CoolizzLuo/graphql-demo/internal/models"

// RequireAuthenticated rejects anonymous callers before the wrapped
// operation runs.
func RequireAuthenticated[A, R any](op Operation[A, R]) Operation[A, R] {
	return func(c *Ctx, args A) (R, error) {
		if c.Session == nil {
			var zero R
			return zero, ErrNotAuthenticated
		}
		return op(c, args)
	}
}

// RequirePostOwner resolves the target post via lookup and rejects callers
// other than its author. It assumes an authenticated session, so it must be
// nested inside RequireAuthenticated.
func RequirePostOwner[A, R any](lookup func(c *Ctx, args A) (*models.Post, error), op Operation[A, R]) Operation[A, R] {
	return func(c *Ctx, args A) (R, error) {
		var zero R
		post, err := lookup(c, args)
		if err != nil {
			return zero, err
		}
		if post.AuthorID != c.Session.UserID {
			return zero, ErrForbidden
		}
		return op(c, args)
	}
}
