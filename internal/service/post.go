package service

import (
	"context"
	"fmt"
	"strings"

	"blogplatform/internal/model"
	"blogplatform/internal/repository"
)

// RecentPostLimit is how many posts the home page shows in its
// "popular posts" block. Deliberately just the N most recent, no ranking.
const RecentPostLimit = 5

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// Create creates a new post for the given author.
func (s *PostService) Create(ctx context.Context, authorID int64, req *model.CreatePostRequest) (*model.Post, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)

	if title == "" {
		return nil, fmt.Errorf("title: %w", model.ErrEmptyField)
	}
	if content == "" {
		return nil, fmt.Errorf("content: %w", model.ErrEmptyField)
	}

	post := &model.Post{
		Title:   title,
		Content: content,
		UserID:  authorID,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// ListByAuthor returns all posts owned by one user.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID)
}

// ListByAuthors returns the union of posts across a set of users,
// used for the friends feed on the home page.
func (s *PostService) ListByAuthors(ctx context.Context, authorIDs []int64) ([]model.Post, error) {
	return s.postRepo.ListByAuthors(ctx, authorIDs)
}

// ListRecent returns the most recent posts globally, newest first.
// A non-positive limit falls back to RecentPostLimit.
func (s *PostService) ListRecent(ctx context.Context, limit int) ([]model.Post, error) {
	if limit <= 0 {
		limit = RecentPostLimit
	}
	return s.postRepo.ListRecent(ctx, limit)
}
