package model

import "time"

// Post represents a blog post owned by exactly one user.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined field (not in posts table)
	AuthorName string `db:"author_name" json:"author_name,omitempty"`
}

// CreatePostRequest carries the add-post form fields.
type CreatePostRequest struct {
	Title   string
	Content string
}

// HomeView is the home page view model: friends' posts plus the recent-posts block.
type HomeView struct {
	FriendsPosts []Post  `json:"friends_posts"`
	PopularPosts []Post  `json:"popular_posts"`
	Flashes      []Flash `json:"flashes,omitempty"`
}

// ProfileView is the profile page view model.
type ProfileView struct {
	User    *User         `json:"user"`
	Posts   []Post        `json:"posts"`
	Friends []UserSummary `json:"friends"`
	Flashes []Flash       `json:"flashes,omitempty"`
}
