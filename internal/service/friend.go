package service

import (
	"context"

	"blogplatform/internal/model"
	"blogplatform/internal/repository"
)

type FriendService struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
}

func NewFriendService(friendshipRepo repository.FriendshipRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
	}
}

// Search finds users by name substring, excluding the searching user.
// An empty query matches everyone else; that is the documented behavior.
func (s *FriendService) Search(ctx context.Context, query string, excludeUserID int64) ([]model.UserSummary, error) {
	return s.userRepo.SearchByName(ctx, query, excludeUserID)
}

// AddFriend records the directional edge userID -> friendID.
// Returns the friend and whether a new edge was created; adding an existing
// friend is a no-op status, not an error. Fails with model.ErrUserNotFound
// when friendID does not resolve to a user.
func (s *FriendService) AddFriend(ctx context.Context, userID, friendID int64) (*model.User, bool, error) {
	if userID == friendID {
		return nil, false, model.ErrCannotFriendSelf
	}

	friend, err := s.userRepo.GetByID(ctx, friendID)
	if err != nil {
		return nil, false, err
	}

	added, err := s.friendshipRepo.Create(ctx, userID, friendID)
	if err != nil {
		return nil, false, err
	}

	return friend, added, nil
}

// ListFriends returns the friend edges recorded for this user.
func (s *FriendService) ListFriends(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	return s.friendshipRepo.ListFriends(ctx, userID)
}

// FriendIDs returns just the friend identifiers, for the home feed query.
func (s *FriendService) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.friendshipRepo.ListFriendIDs(ctx, userID)
}
