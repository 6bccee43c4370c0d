package social

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/CoolizzLuo/graphql-demo/internal/models"
	"github.com/CoolizzLuo/graphql-demo/internal/store"
)

// Field resolvers compute relational fields on demand. All of them are pure
// reads over the current store snapshot and safe to run concurrently.

// Friends resolves u.FriendIDs to users. Dangling ids are skipped.
func (s *Service) Friends(ctx context.Context, u *models.User) ([]models.User, error) {
	return s.store.ListUsersByIDs(ctx, u.FriendIDs)
}

// PostsByAuthor resolves the posts authored by u.
func (s *Service) PostsByAuthor(ctx context.Context, u *models.User) ([]models.Post, error) {
	return s.store.ListPostsByAuthor(ctx, u.ID)
}

// Author resolves p.AuthorID. A deleted author yields nil, not an error.
func (s *Service) Author(ctx context.Context, p *models.Post) (*models.User, error) {
	u, err := s.store.GetUser(ctx, p.AuthorID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// LikeGivers resolves p.LikeGiverIDs to users.
func (s *Service) LikeGivers(ctx context.Context, p *models.Post) ([]models.User, error) {
	return s.store.ListUsersByIDs(ctx, p.LikeGiverIDs)
}

// UserView is a user with its relational fields resolved.
type UserView struct {
	models.User
	Friends []models.User `json:"friends"`
	Posts   []models.Post `json:"posts"`
}

// PostView is a post with its relational fields resolved.
type PostView struct {
	models.Post
	Author     *models.User  `json:"author"`
	LikeGivers []models.User `json:"likeGivers"`
}

// ResolveUser assembles a UserView. Sibling fields resolve concurrently;
// order across them carries no meaning.
func (s *Service) ResolveUser(ctx context.Context, u *models.User) (*UserView, error) {
	view := &UserView{User: *u}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		friends, err := s.Friends(gctx, u)
		view.Friends = friends
		return err
	})
	g.Go(func() error {
		posts, err := s.PostsByAuthor(gctx, u)
		view.Posts = posts
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// ResolvePost assembles a PostView.
func (s *Service) ResolvePost(ctx context.Context, p *models.Post) (*PostView, error) {
	view := &PostView{Post: *p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		author, err := s.Author(gctx, p)
		view.Author = author
		return err
	})
	g.Go(func() error {
		likeGivers, err := s.LikeGivers(gctx, p)
		view.LikeGivers = likeGivers
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// ResolveUsers assembles views for a user list.
func (s *Service) ResolveUsers(ctx context.Context, users []models.User) ([]UserView, error) {
	views := make([]UserView, len(users))
	g, gctx := errgroup.WithContext(ctx)
	for i := range users {
		g.Go(func() error {
			v, err := s.ResolveUser(gctx, &users[i])
			if err != nil {
				return err
			}
			views[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// ResolvePosts assembles views for a post list.
func (s *Service) ResolvePosts(ctx context.Context, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	for i := range posts {
		g.Go(func() error {
			v, err := s.ResolvePost(gctx, &posts[i])
			if err != nil {
				return err
			}
			views[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}
