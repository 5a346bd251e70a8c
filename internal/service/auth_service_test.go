package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/auth"
	apperrors "github.com/happytweet/feedback-api/internal/errors"
	"github.com/happytweet/feedback-api/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, offset, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DeleteWithSuggestions(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService("test-secret", time.Hour)
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		input         SignupInput
		setupMock     func(*MockUserRepository)
		expectedError error
		wantValidates bool
	}{
		{
			name:  "successful signup",
			input: SignupInput{Username: "alice", Email: "alice@example.com", Password: "password123", FullName: "Alice"},
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "alice@example.com", "alice").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "email and username lower-cased before conflict check",
			input: SignupInput{Username: "Alice", Email: "ALICE@Example.COM", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "alice@example.com", "alice").Return(true, nil)
			},
			expectedError: apperrors.ErrUserExists,
		},
		{
			name:          "missing fields rejected",
			input:         SignupInput{Username: "alice"},
			setupMock:     func(m *MockUserRepository) {},
			wantValidates: true,
		},
		{
			name:          "short password rejected",
			input:         SignupInput{Username: "alice", Email: "alice@example.com", Password: "12345"},
			setupMock:     func(m *MockUserRepository) {},
			wantValidates: true,
		},
		{
			name:          "bad username rejected",
			input:         SignupInput{Username: "a!", Email: "alice@example.com", Password: "password123"},
			setupMock:     func(m *MockUserRepository) {},
			wantValidates: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, newTestJWT())
			user, token, err := svc.Signup(context.Background(), tt.input)

			switch {
			case tt.wantValidates:
				assert.Error(t, err)
				var ve *apperrors.ValidationError
				assert.ErrorAs(t, err, &ve)
				assert.Nil(t, user)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
				assert.Equal(t, "alice@example.com", user.Email)
				assert.Equal(t, auth.RoleUser, user.Role)
				assert.True(t, user.IsActive)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "alice@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
					ID:           1,
					Email:        "alice@example.com",
					PasswordHash: string(hashed),
					IsActive:     true,
				}, nil)
			},
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password yields same error as unknown email",
			email:    "alice@example.com",
			password: "wrongpass",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
					ID:           1,
					Email:        "alice@example.com",
					PasswordHash: string(hashed),
					IsActive:     true,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "inactive account rejected before password check",
			email:    "alice@example.com",
			password: "wrongpass",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
					ID:           1,
					Email:        "alice@example.com",
					PasswordHash: string(hashed),
					IsActive:     false,
				}, nil)
			},
			expectedError: apperrors.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, newTestJWT())
			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginCaseFoldsEmail(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: string(hashed),
		IsActive:     true,
	}, nil)

	svc := NewAuthService(mockRepo, newTestJWT())
	user, _, err := svc.Login(context.Background(), "ALICE@Example.com", "password123")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpass123"), 10)

	tests := []struct {
		name          string
		oldPassword   string
		newPassword   string
		setupMock     func(*MockUserRepository)
		expectedError error
		wantValidates bool
	}{
		{
			name:        "successful change",
			oldPassword: "oldpass123",
			newPassword: "newpass456",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, PasswordHash: string(hashed)}, nil)
				m.On("UpdateFields", mock.Anything, uint(1), mock.AnythingOfType("map[string]interface {}")).Return(int64(1), nil)
			},
		},
		{
			name:        "wrong old password",
			oldPassword: "nope",
			newPassword: "newpass456",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, PasswordHash: string(hashed)}, nil)
			},
			expectedError: apperrors.ErrWrongPassword,
		},
		{
			name:          "short new password rejected",
			oldPassword:   "oldpass123",
			newPassword:   "x",
			setupMock:     func(m *MockUserRepository) {},
			wantValidates: true,
		},
		{
			name:        "user vanished",
			oldPassword: "oldpass123",
			newPassword: "newpass456",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, newTestJWT())
			err := svc.ChangePassword(context.Background(), 1, tt.oldPassword, tt.newPassword)

			switch {
			case tt.wantValidates:
				var ve *apperrors.ValidationError
				assert.ErrorAs(t, err, &ve)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			default:
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	name := "  Alice <b>Smith</b>  "
	mockRepo.On("UpdateFields", mock.Anything, uint(1), mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["full_name"] == "Alice bSmith/b"
	})).Return(int64(1), nil)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, FullName: "Alice bSmith/b"}, nil)

	svc := NewAuthService(mockRepo, newTestJWT())
	user, err := svc.UpdateProfile(context.Background(), 1, &name, nil)

	assert.NoError(t, err)
	assert.NotNil(t, user)
	mockRepo.AssertExpectations(t)
}
