package store

import (
	"context"
	"errors"

	"github.com/CoolizzLuo/graphql-demo/internal/models"
)

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// UserUpdate carries a partial update of a User. Nil fields are left
// untouched.
type UserUpdate struct {
	Name      *string
	Age       *int
	FriendIDs *[]int64
}

// PostUpdate carries a partial update of a Post. AuthorID and CreatedAt are
// immutable and therefore not updatable.
type PostUpdate struct {
	Title        *string
	Body         *string
	LikeGiverIDs *[]int64
}

// EntityStore is the persistence contract for users and posts. Create
// assigns ids monotonically per kind and implementations never reuse an id
// after deletion. Update and Delete return ErrNotFound for absent targets.
// Lookups that miss also return ErrNotFound, except the List variants which
// return empty slices.
type EntityStore interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error)

	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error)
	CreatePost(ctx context.Context, p *models.Post) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, upd PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) (*models.Post, error)
}
