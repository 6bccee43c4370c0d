package social

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/CoolizzLuo/graphql-demo/internal/auth"
	"github.com/CoolizzLuo/graphql-demo/internal/models"
	"github.com/CoolizzLuo/graphql-demo/internal/store"
)

// Service holds the social-graph operations. Each exported Operation field
// is the guarded form, composed once at construction; guard order puts
// authentication before ownership since the ownership check reads the
// session.
type Service struct {
	store    store.EntityStore
	hasher   auth.Hasher
	codec    auth.TokenCodec
	tokenTTL time.Duration

	// mu serializes read-modify-write mutations (friend edges, like
	// toggles) that span more than one store call.
	mu sync.Mutex

	Me         Operation[NoArgs, *models.User]
	Users      Operation[NoArgs, []models.User]
	UserByName Operation[NameArgs, *models.User]
	Posts      Operation[NoArgs, []models.Post]
	Post       Operation[PostIDArgs, *models.Post]

	SignUp       Operation[models.SignUpRequest, *models.User]
	Login        Operation[models.LoginRequest, *models.Token]
	UpdateMyInfo Operation[models.UpdateMyInfoRequest, *models.User]
	AddFriend    Operation[models.AddFriendRequest, *models.User]
	AddPost      Operation[models.AddPostRequest, *models.Post]
	LikePost     Operation[PostIDArgs, *models.Post]
	DeletePost   Operation[PostIDArgs, *models.Post]
}

func NewService(st store.EntityStore, hasher auth.Hasher, codec auth.TokenCodec, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	s := &Service{store: st, hasher: hasher, codec: codec, tokenTTL: tokenTTL}

	s.Me = RequireAuthenticated(s.me)
	s.Users = s.users
	s.UserByName = s.userByName
	s.Posts = s.posts
	s.Post = s.post

	s.SignUp = s.signUp
	s.Login = s.login
	s.UpdateMyInfo = RequireAuthenticated(s.updateMyInfo)
	s.AddFriend = RequireAuthenticated(s.addFriend)
	s.AddPost = RequireAuthenticated(s.addPost)
	s.LikePost = RequireAuthenticated(s.likePost)
	s.DeletePost = RequireAuthenticated(RequirePostOwner(s.lookupPost, s.deletePost))
	return s
}

// lookupPost resolves the guard target for ownership checks.
func (s *Service) lookupPost(c *Ctx, args PostIDArgs) (*models.Post, error) {
	post, err := s.store.GetPost(c.Context, args.PostID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	return post, err
}

// ── Queries ──────────────────────────────────────────────────────

func (s *Service) me(c *Ctx, _ NoArgs) (*models.User, error) {
	u, err := s.store.GetUser(c.Context, c.Session.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) users(c *Ctx, _ NoArgs) ([]models.User, error) {
	return s.store.ListUsers(c.Context)
}

func (s *Service) userByName(c *Ctx, args NameArgs) (*models.User, error) {
	u, err := s.store.GetUserByName(c.Context, args.Name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) posts(c *Ctx, _ NoArgs) ([]models.Post, error) {
	return s.store.ListPosts(c.Context)
}

func (s *Service) post(c *Ctx, args PostIDArgs) (*models.Post, error) {
	return s.lookupPost(c, args)
}

// ── Mutations ────────────────────────────────────────────────────

func (s *Service) signUp(c *Ctx, req models.SignUpRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.store.GetUserByEmail(c.Context, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(c.Context, &models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Name:         req.Name,
	})
}

func (s *Service) login(c *Ctx, req models.LoginRequest) (*models.Token, error) {
	u, err := s.store.GetUserByEmail(c.Context, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.codec.Sign(auth.Claims{UserID: u.ID}, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.Token{Token: token}, nil
}

func (s *Service) updateMyInfo(c *Ctx, req models.UpdateMyInfoRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.store.UpdateUser(c.Context, c.Session.UserID, store.UserUpdate{
		Name: req.Name,
		Age:  req.Age,
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) addFriend(c *Ctx, req models.AddFriendRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meID := c.Session.UserID
	if req.UserID == meID {
		return nil, ErrSelfFriend
	}

	me, err := s.store.GetUser(c.Context, meID)
	if err != nil {
		return nil, fmt.Errorf("load caller: %w", err)
	}
	if slices.Contains(me.FriendIDs, req.UserID) {
		return nil, ErrAlreadyFriends
	}

	friend, err := s.store.GetUser(c.Context, req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	// Symmetric insert into both edge sets.
	myFriends := append(me.FriendIDs, friend.ID)
	theirFriends := append(friend.FriendIDs, me.ID)

	updated, err := s.store.UpdateUser(c.Context, me.ID, store.UserUpdate{FriendIDs: &myFriends})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.UpdateUser(c.Context, friend.ID, store.UserUpdate{FriendIDs: &theirFriends}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) addPost(c *Ctx, req models.AddPostRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.CreatePost(c.Context, &models.Post{
		AuthorID:     c.Session.UserID,
		Title:        req.Title,
		Body:         req.Body,
		LikeGiverIDs: []int64{},
		CreatedAt:    time.Now().UTC(),
	})
}

// likePost toggles the caller's membership in the post's like set. The
// membership test is on the caller's id, never the post's.
func (s *Service) likePost(c *Ctx, args PostIDArgs) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.lookupPost(c, args)
	if err != nil {
		return nil, err
	}

	meID := c.Session.UserID
	var likeGivers []int64
	if slices.Contains(post.LikeGiverIDs, meID) {
		likeGivers = slices.DeleteFunc(post.LikeGiverIDs, func(id int64) bool { return id == meID })
	} else {
		likeGivers = append(post.LikeGiverIDs, meID)
	}

	updated, err := s.store.UpdatePost(c.Context, post.ID, store.PostUpdate{LikeGiverIDs: &likeGivers})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	return updated, err
}

func (s *Service) deletePost(c *Ctx, args PostIDArgs) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.store.DeletePost(c.Context, args.PostID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	return post, err
}
