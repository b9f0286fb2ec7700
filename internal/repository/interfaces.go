package repository

import (
	"context"

	"blogplatform/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SearchByName(ctx context.Context, query string, excludeID int64) ([]model.UserSummary, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ListByAuthor(ctx context.Context, userID int64) ([]model.Post, error)
	ListByAuthors(ctx context.Context, userIDs []int64) ([]model.Post, error)
	ListRecent(ctx context.Context, limit int) ([]model.Post, error)
}

type FriendshipRepository interface {
	// Create inserts the edge atomically; returns false when it already existed.
	Create(ctx context.Context, userID, friendID int64) (bool, error)
	ListFriends(ctx context.Context, userID int64) ([]model.UserSummary, error)
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
}
