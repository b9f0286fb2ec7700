package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogplatform/internal/model"
)

type friendshipRepository struct {
	db *sqlx.DB
}

func NewFriendshipRepository(db *sqlx.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create inserts the directional friend edge. The conditional insert is
// atomic, so two concurrent adds of the same edge cannot duplicate it.
func (r *friendshipRepository) Create(ctx context.Context, userID, friendID int64) (bool, error) {
	query := `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("failed to create friendship: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListFriends returns the users this user has added, oldest edge first.
func (r *friendshipRepository) ListFriends(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.profile_picture
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY f.created_at
	`

	var friends []model.UserSummary
	err := r.db.SelectContext(ctx, &friends, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	return friends, nil
}

// ListFriendIDs returns just the friend identifiers, for the feed query.
func (r *friendshipRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT friend_id FROM friendships WHERE user_id = $1`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}

	return ids, nil
}
