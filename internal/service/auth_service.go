package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/auth"
	apperrors "github.com/happytweet/feedback-api/internal/errors"
	"github.com/happytweet/feedback-api/internal/metrics"
	"github.com/happytweet/feedback-api/internal/model"
	"github.com/happytweet/feedback-api/internal/repository"
	"github.com/happytweet/feedback-api/internal/validation"
)

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AuthService handles authentication and account-self-service operations.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	CurrentUser(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, fullName, avatarURL *string) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Signup validates and registers a new account, returning the created user
// and a signed token. Email and username are lower-cased before the
// uniqueness check and storage.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, "", apperrors.NewValidation("Username, email, and password are required")
	}
	if !validation.ValidateUsername(in.Username) {
		return nil, "", apperrors.NewValidation("Invalid username format (3-30 characters, alphanumeric, hyphens, underscores)")
	}
	if !validation.ValidateEmail(in.Email) {
		return nil, "", apperrors.NewValidation("Invalid email format")
	}
	if !validation.ValidatePassword(in.Password) {
		return nil, "", apperrors.NewValidation("Password must be at least 6 characters")
	}

	email := strings.ToLower(in.Email)
	username := strings.ToLower(in.Username)

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, "", apperrors.ErrUserExists
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     validation.Sanitize(in.FullName),
		Role:         auth.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	metrics.SignupsTotal.Inc()
	return user, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password return the same error; inactive accounts are rejected before the
// password check.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.NewValidation("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return nil, "", apperrors.ErrAccountInactive
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, token, nil
}

// CurrentUser fetches the account behind a still-valid token. Returns
// ErrUserNotFound when the account vanished since issuance.
func (s *authService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update: only supplied fields change.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, fullName, avatarURL *string) (*model.User, error) {
	fields := map[string]interface{}{}
	if fullName != nil {
		fields["full_name"] = validation.Sanitize(*fullName)
	}
	if avatarURL != nil {
		fields["avatar_url"] = *avatarURL
	}

	if len(fields) > 0 {
		if _, err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}

	return s.CurrentUser(ctx, userID)
}

// ChangePassword verifies the old password and stores a fresh hash of the
// new one.
func (s *authService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperrors.NewValidation("Old and new passwords are required")
	}
	if !validation.ValidatePassword(newPassword) {
		return apperrors.NewValidation("New password must be at least 6 characters")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(oldPassword, user.PasswordHash) {
		return apperrors.ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password_hash": hash}); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}
