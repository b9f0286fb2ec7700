package model

import (
	"errors"
	"time"
)

// Friendship is a directional edge: user_id added friend_id.
// The reverse edge exists only if the other user adds back.
type Friendship struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	FriendID  int64     `db:"friend_id" json:"friend_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SearchView is the friend-search page view model.
type SearchView struct {
	User             *User         `json:"user"`
	PotentialFriends []UserSummary `json:"potential_friends"`
	Flashes          []Flash       `json:"flashes,omitempty"`
}

var (
	// ErrAlreadyFriends is returned when the friend edge already exists
	ErrAlreadyFriends = errors.New("already friends with this user")

	// ErrCannotFriendSelf is returned when a user tries to add themself
	ErrCannotFriendSelf = errors.New("cannot add yourself as a friend")
)
