package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CoolizzLuo/graphql-demo/internal/models"
)

// PostgresStore is the EntityStore backed by PostgreSQL. BIGSERIAL keys give
// monotonic, never-reused ids; the UNIQUE constraint on email backs the
// uniqueness invariant at the storage level as well.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users and posts tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			email         VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name          VARCHAR(100) NOT NULL DEFAULT '',
			age           INT,
			friend_ids    BIGINT[] NOT NULL DEFAULT '{}'
		);
		CREATE TABLE IF NOT EXISTS posts (
			id             BIGSERIAL PRIMARY KEY,
			author_id      BIGINT NOT NULL REFERENCES users(id),
			title          TEXT NOT NULL DEFAULT '',
			body           TEXT NOT NULL DEFAULT '',
			like_giver_ids BIGINT[] NOT NULL DEFAULT '{}',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

const userCols = `id, email, password_hash, name, age, friend_ids`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Age, &u.FriendIDs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (s *PostgresStore) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE name = $1 ORDER BY id LIMIT 1`, name))
}

func (s *PostgresStore) listUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.listUsers(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
}

func (s *PostgresStore) ListUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	return s.listUsers(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ANY($1) ORDER BY id`, ids)
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	friendIDs := u.FriendIDs
	if friendIDs == nil {
		friendIDs = []int64{}
	}
	created, err := scanUser(s.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, age, friend_ids)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userCols,
		u.Email, u.PasswordHash, u.Name, u.Age, friendIDs))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`UPDATE users SET
			name       = COALESCE($2, name),
			age        = COALESCE($3, age),
			friend_ids = COALESCE($4, friend_ids)
		 WHERE id = $1
		 RETURNING `+userCols,
		id, upd.Name, upd.Age, upd.FriendIDs))
}

const postCols = `id, author_id, title, body, like_giver_ids, created_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.LikeGiverIDs, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return scanPost(s.pool.QueryRow(ctx,
		`SELECT `+postCols+` FROM posts WHERE id = $1`, id))
}

func (s *PostgresStore) listPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.listPosts(ctx, `SELECT `+postCols+` FROM posts ORDER BY id`)
}

func (s *PostgresStore) ListPostsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	return s.listPosts(ctx,
		`SELECT `+postCols+` FROM posts WHERE author_id = $1 ORDER BY id`, authorID)
}

func (s *PostgresStore) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	likeGiverIDs := p.LikeGiverIDs
	if likeGiverIDs == nil {
		likeGiverIDs = []int64{}
	}
	created, err := scanPost(s.pool.QueryRow(ctx,
		`INSERT INTO posts (author_id, title, body, like_giver_ids)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+postCols,
		p.AuthorID, p.Title, p.Body, likeGiverIDs))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdatePost(ctx context.Context, id int64, upd PostUpdate) (*models.Post, error) {
	return scanPost(s.pool.QueryRow(ctx,
		`UPDATE posts SET
			title          = COALESCE($2, title),
			body           = COALESCE($3, body),
			like_giver_ids = COALESCE($4, like_giver_ids)
		 WHERE id = $1
		 RETURNING `+postCols,
		id, upd.Title, upd.Body, upd.LikeGiverIDs))
}

func (s *PostgresStore) DeletePost(ctx context.Context, id int64) (*models.Post, error) {
	return scanPost(s.pool.QueryRow(ctx,
		`DELETE FROM posts WHERE id = $1 RETURNING `+postCols, id))
}
