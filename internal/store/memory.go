package store

import (
	"context"
	"sync"
	"time"

	"github.com/CoolizzLuo/graphql-demo/internal/models"
)

// MemoryStore keeps all records in process memory behind a single mutex.
// Next ids are seeded at max(existing)+1 and only ever grow, so deleting a
// record never frees its id for reuse.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int64]*models.User
	posts      map[int64]*models.Post
	nextUserID int64
	nextPostID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]*models.User),
		posts:      make(map[int64]*models.Post),
		nextUserID: 1,
		nextPostID: 1,
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.FriendIDs = append([]int64(nil), u.FriendIDs...)
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.LikeGiverIDs = append([]int64(nil), p.LikeGiverIDs...)
	return &c
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

// GetUserByName returns the lowest-id match; names are not unique.
func (s *MemoryStore) GetUserByName(_ context.Context, name string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.User
	for _, u := range s.users {
		if u.Name == name && (found == nil || u.ID < found.ID) {
			found = u
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return cloneUser(found), nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for id := int64(1); id < s.nextUserID; id++ {
		if u, ok := s.users[id]; ok {
			users = append(users, *cloneUser(u))
		}
	}
	return users, nil
}

func (s *MemoryStore) ListUsersByIDs(_ context.Context, ids []int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, *cloneUser(u))
		}
	}
	return users, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := cloneUser(u)
	created.ID = s.nextUserID
	s.nextUserID++
	if created.FriendIDs == nil {
		created.FriendIDs = []int64{}
	}
	s.users[created.ID] = created
	return cloneUser(created), nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id int64, upd UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Age != nil {
		age := *upd.Age
		u.Age = &age
	}
	if upd.FriendIDs != nil {
		u.FriendIDs = append([]int64(nil), (*upd.FriendIDs)...)
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetPost(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePost(p), nil
}

func (s *MemoryStore) ListPosts(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := make([]models.Post, 0, len(s.posts))
	for id := int64(1); id < s.nextPostID; id++ {
		if p, ok := s.posts[id]; ok {
			posts = append(posts, *clonePost(p))
		}
	}
	return posts, nil
}

func (s *MemoryStore) ListPostsByAuthor(_ context.Context, authorID int64) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := make([]models.Post, 0)
	for id := int64(1); id < s.nextPostID; id++ {
		if p, ok := s.posts[id]; ok && p.AuthorID == authorID {
			posts = append(posts, *clonePost(p))
		}
	}
	return posts, nil
}

func (s *MemoryStore) CreatePost(_ context.Context, p *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := clonePost(p)
	created.ID = s.nextPostID
	s.nextPostID++
	if created.LikeGiverIDs == nil {
		created.LikeGiverIDs = []int64{}
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	s.posts[created.ID] = created
	return clonePost(created), nil
}

func (s *MemoryStore) UpdatePost(_ context.Context, id int64, upd PostUpdate) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Body != nil {
		p.Body = *upd.Body
	}
	if upd.LikeGiverIDs != nil {
		p.LikeGiverIDs = append([]int64(nil), (*upd.LikeGiverIDs)...)
	}
	return clonePost(p), nil
}

func (s *MemoryStore) DeletePost(_ context.Context, id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.posts, id)
	return clonePost(p), nil
}
