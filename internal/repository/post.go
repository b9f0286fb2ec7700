package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogplatform/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post owned by an existing user.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, p.Title, p.Content, p.UserID).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// ListByAuthor returns all posts owned by one user in creation order.
func (r *postRepository) ListByAuthor(ctx context.Context, userID int64) ([]model.Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.user_id, p.created_at, u.name AS author_name
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.id
	`

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}

	return posts, nil
}

// ListByAuthors returns the union of posts across a set of users.
// Each post has exactly one author, so the result carries no duplicates.
func (r *postRepository) ListByAuthors(ctx context.Context, userIDs []int64) ([]model.Post, error) {
	if len(userIDs) == 0 {
		return []model.Post{}, nil
	}

	query := `
		SELECT p.id, p.title, p.content, p.user_id, p.created_at, u.name AS author_name
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ANY($1)
		ORDER BY p.id
	`

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by authors: %w", err)
	}

	return posts, nil
}

// ListRecent returns the globally most recent posts, newest first.
func (r *postRepository) ListRecent(ctx context.Context, limit int) ([]model.Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.user_id, p.created_at, u.name AS author_name
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.id DESC
		LIMIT $1
	`

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}

	return posts, nil
}
