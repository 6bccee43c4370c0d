package store

import (
	"context"
	"fmt"
	"time"

	"github.com/CoolizzLuo/graphql-demo/internal/models"
)

func intPtr(v int) *int { return &v }

// SeedDemoData loads the demo fixture set: three mutual-friend users and two
// liked posts. The password hashes encode "123456". Intended for the memory
// backend and local development only.
func SeedDemoData(ctx context.Context, s EntityStore) error {
	users := []models.User{
		{
			Email:        "fong@test.com",
			PasswordHash: "$2b$04$wcwaquqi5ea1Ho0aKwkZ0e51/RUkg6SGxaumo8fxzILDmcrv4OBIO",
			Name:         "Fong",
			Age:          intPtr(23),
			FriendIDs:    []int64{2, 3},
		},
		{
			Email:        "kevin@test.com",
			PasswordHash: "$2b$04$uy73IdY9HVZrIENuLwZ3k./0azDvlChLyY1ht/73N4YfEZntgChbe",
			Name:         "Kevin",
			Age:          intPtr(40),
			FriendIDs:    []int64{1},
		},
		{
			Email:        "mary@test.com",
			PasswordHash: "$2b$04$UmERaT7uP4hRqmlheiRHbOwGEhskNw05GHYucU73JRf8LgWaqWpTy",
			Name:         "Mary",
			Age:          intPtr(18),
			FriendIDs:    []int64{1},
		},
	}
	for i := range users {
		if _, err := s.CreateUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("seed user %q: %w", users[i].Email, err)
		}
	}

	posts := []models.Post{
		{
			AuthorID:     1,
			Title:        "Hello World",
			Body:         "This is my first post",
			LikeGiverIDs: []int64{1, 2},
			CreatedAt:    time.Date(2018, 10, 22, 1, 40, 14, 0, time.UTC),
		},
		{
			AuthorID:     2,
			Title:        "Nice Day",
			Body:         "Hello My Friend!",
			LikeGiverIDs: []int64{1},
			CreatedAt:    time.Date(2018, 10, 24, 1, 40, 14, 0, time.UTC),
		},
	}
	for i := range posts {
		if _, err := s.CreatePost(ctx, &posts[i]); err != nil {
			return fmt.Errorf("seed post %q: %w", posts[i].Title, err)
		}
	}
	return nil
}
