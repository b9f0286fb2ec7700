package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"blogplatform/internal/model"
	"blogplatform/internal/repository"
)

// UserService handles business logic for registration and login
type UserService struct {
	repo                  repository.UserRepository
	defaultProfilePicture string
}

func NewUserService(repo repository.UserRepository, defaultProfilePicture string) *UserService {
	return &UserService{
		repo:                  repo,
		defaultProfilePicture: defaultProfilePicture,
	}
}

// Register creates a new user account with the placeholder profile picture.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if name == "" {
		return nil, fmt.Errorf("name: %w", model.ErrEmptyField)
	}
	if email == "" {
		return nil, fmt.Errorf("email: %w", model.ErrEmptyField)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password: %w", model.ErrEmptyField)
	}

	// Check if email is already registered
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	// Hash the password; plaintext is never stored
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:           name,
		Email:          email,
		PasswordHashed: string(hashedPassword),
		ProfilePicture: s.defaultProfilePicture,
	}

	// The repository maps the unique-index violation back to ErrEmailExists,
	// so a registration racing the check above still fails cleanly.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		// Don't reveal whether the email is registered or not
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}
