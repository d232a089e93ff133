package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/pkg/models"
)

type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Register creates a worker or employer account and signs it in.
func (s *Service) Register(ctx context.Context, username, password string, role models.Role) (*AuthResult, error) {
	switch role {
	case models.RoleWorker, models.RoleEmployer:
	case models.RoleAdmin:
		return nil, fmt.Errorf("admin accounts cannot self-register: %w", models.ErrForbidden)
	default:
		return nil, fmt.Errorf("role %q: %w", role, models.ErrInvalidInput)
	}

	u, err := s.CreateUser(ctx, username, password, role)
	if err != nil {
		return nil, err
	}
	return s.signIn(u)
}

// CreateUser stores a new active account with any role.
func (s *Service) CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", models.ErrInvalidInput)
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return nil, fmt.Errorf("%v: %w", err, models.ErrInvalidInput)
	}

	existing, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, models.ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       models.AccountActive,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", string(u.Role))
	return u, nil
}

// Login verifies the credentials, stamps last_login and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, models.ErrInvalidCredentials
	}
	if !u.Status.CanSignIn() {
		return nil, fmt.Errorf("account is %s: %w", u.Status, models.ErrForbidden)
	}

	if err := s.store.TouchLastLogin(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	now := s.now()
	u.LastLogin = &now

	return s.signIn(u)
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return u, nil
}

func (s *Service) signIn(u *models.User) (*AuthResult, error) {
	token, err := s.issuer.Issue(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, TokenType: "bearer", User: u}, nil
}
