package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// UserService provides business logic for customer accounts
type UserService struct {
	db   db.Database
	cost int
}

// NewUserService creates a new user service
func NewUserService(database db.Database) *UserService {
	return &UserService{db: database, cost: bcrypt.DefaultCost}
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("password is longer than 72 bytes: %w", ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CreateUser registers a new, active user
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Active:       true,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.db.GetUser(ctx, id)
}

// ListUsers lists users
func (s *UserService) ListUsers(ctx context.Context, page shared.Page) ([]*models.User, int64, error) {
	return s.db.ListUsers(ctx, page)
}

// UpdateUser applies the non-empty fields of req
func (s *UserService) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.db.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != "" {
		if user.PasswordHash, err = s.hash(req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.db.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes a user. Users with orders cannot be deleted; deactivate them instead.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.db.DeleteUser(ctx, id)
}

// CheckPassword reports whether password matches the user's stored hash
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
