package auth

import (
	"errors"
	"time"

	"medialog/internal/core"
)

// Service provides authentication functionality
type Service struct {
	users  *UserModel
	tokens *TokenModel
	logger *core.Logger
	config *core.Config
}

// NewService creates a new authentication service
func NewService(db *core.Database, logger *core.Logger, config *core.Config) *Service {
	return &Service{
		users:  NewUserModel(db, logger),
		tokens: NewTokenModel(db, logger),
		logger: logger,
		config: config,
	}
}

// AuthenticateUser authenticates a user with email and password
func (s *Service) AuthenticateUser(email, password string) (*User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	if !user.Activated {
		return nil, ErrUserNotActivated
	}

	match, err := user.Password.Matches(password)
	if err != nil {
		return nil, err
	}

	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// CreateAuthenticationToken creates a new authentication token for a user
func (s *Service) CreateAuthenticationToken(user *User) (*Token, error) {
	// A login replaces any existing session
	err := s.tokens.DeleteAllForUser(ScopeAuthentication, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.New(user.ID, 24*time.Hour, ScopeAuthentication)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created authentication token", "user_id", user.ID)
	return token, nil
}

// ValidateToken validates an authentication token
func (s *Service) ValidateToken(tokenPlaintext string) (*User, error) {
	user, err := s.users.GetForToken(ScopeAuthentication, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, err
		}
	}

	return user, nil
}

// CreateUser creates a new activated user
func (s *Service) CreateUser(name, email, password string) (*User, error) {
	user := &User{
		Name:      name,
		Email:     email,
		Activated: true,
	}

	err := user.Password.Set(password)
	if err != nil {
		return nil, err
	}

	err = s.users.Insert(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created user", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// SeedAdminUser creates the admin account from config if it does not exist
func (s *Service) SeedAdminUser() (*User, error) {
	user, err := s.users.GetByEmail(s.config.Auth.AdminEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	return s.CreateUser("Admin", s.config.Auth.AdminEmail, s.config.Auth.AdminPassword)
}

// LogoutUser invalidates all authentication tokens for a user
func (s *Service) LogoutUser(userID int) error {
	err := s.tokens.DeleteAllForUser(ScopeAuthentication, userID)
	if err != nil {
		return err
	}

	s.logger.Info("User logged out", "user_id", userID)
	return nil
}

// Common authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotActivated   = errors.New("user not activated")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
