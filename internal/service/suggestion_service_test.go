package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/auth"
	apperrors "github.com/happytweet/feedback-api/internal/errors"
	"github.com/happytweet/feedback-api/internal/model"
	"github.com/happytweet/feedback-api/internal/repository"
)

// MockSuggestionRepository is a mock implementation of SuggestionRepository.
type MockSuggestionRepository struct {
	mock.Mock
}

func (m *MockSuggestionRepository) Create(ctx context.Context, suggestion *model.Suggestion) error {
	args := m.Called(ctx, suggestion)
	return args.Error(0)
}

func (m *MockSuggestionRepository) FindByID(ctx context.Context, id uint) (*model.Suggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) List(ctx context.Context, f repository.SuggestionFilter) ([]model.Suggestion, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Suggestion), args.Get(1).(int64), args.Error(2)
}

func (m *MockSuggestionRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockSuggestionRepository) UpdateStatus(ctx context.Context, id uint, status string, resolvedAt *time.Time) (int64, error) {
	args := m.Called(ctx, id, status, resolvedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSuggestionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSuggestionRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSuggestionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSuggestionRepository) CountWithStatuses(ctx context.Context, userID *uint, statuses ...string) (int64, error) {
	callArgs := []interface{}{ctx, userID}
	for _, s := range statuses {
		callArgs = append(callArgs, s)
	}
	args := m.Called(callArgs...)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSuggestionRepository) CountDistinctUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSuggestionRepository) GroupByStatus(ctx context.Context, userID *uint) ([]repository.StatusCount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockSuggestionRepository) GroupByCategory(ctx context.Context, userID *uint) ([]repository.CategoryCount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryCount), args.Error(1)
}

func (m *MockSuggestionRepository) GroupByPriority(ctx context.Context, userID *uint) ([]repository.PriorityCount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PriorityCount), args.Error(1)
}

func (m *MockSuggestionRepository) PerDay(ctx context.Context, days int) ([]repository.DayCount, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DayCount), args.Error(1)
}

func (m *MockSuggestionRepository) TopContributors(ctx context.Context, limit int) ([]repository.Contributor, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Contributor), args.Error(1)
}

func (m *MockSuggestionRepository) Latest(ctx context.Context, limit int) ([]model.Suggestion, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) AllWithUsers(ctx context.Context) ([]model.Suggestion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Suggestion), args.Error(1)
}

// MockAttachmentRepository is a mock implementation of AttachmentRepository.
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) ListBySuggestion(ctx context.Context, suggestionID uint) ([]model.Attachment, error) {
	args := m.Called(ctx, suggestionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

// MockNoteRepository is a mock implementation of NoteRepository.
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *model.DeveloperNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) FindByID(ctx context.Context, id uint) (*model.DeveloperNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeveloperNote), args.Error(1)
}

func (m *MockNoteRepository) ListBySuggestion(ctx context.Context, suggestionID uint) ([]model.DeveloperNote, error) {
	args := m.Called(ctx, suggestionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DeveloperNote), args.Error(1)
}

func (m *MockNoteRepository) Update(ctx context.Context, id uint, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository.
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func newSuggestionService(s *MockSuggestionRepository, a *MockAttachmentRepository, n *MockNoteRepository, act *MockActivityRepository) SuggestionService {
	return NewSuggestionService(s, a, n, act, nil)
}

func TestSuggestionService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         CreateSuggestionInput
		setupMock     func(*MockSuggestionRepository, *MockActivityRepository)
		wantValidates bool
	}{
		{
			name:  "successful create with defaults",
			input: CreateSuggestionInput{Title: "Dark mode", Description: "Please add dark mode", Category: "feature"},
			setupMock: func(s *MockSuggestionRepository, act *MockActivityRepository) {
				s.On("Create", mock.Anything, mock.MatchedBy(func(sg *model.Suggestion) bool {
					return sg.Status == model.StatusNew && sg.Priority == model.PriorityMedium && sg.UserID == uint(7)
				})).Return(nil)
				act.On("Create", mock.Anything, mock.MatchedBy(func(e *model.ActivityLog) bool {
					return e.Action == model.ActionCreated && e.UserID == uint(7)
				})).Return(nil)
			},
		},
		{
			name:          "missing required fields",
			input:         CreateSuggestionInput{Title: "x"},
			setupMock:     func(s *MockSuggestionRepository, act *MockActivityRepository) {},
			wantValidates: true,
		},
		{
			name:          "unknown category",
			input:         CreateSuggestionInput{Title: "x", Description: "y", Category: "spam"},
			setupMock:     func(s *MockSuggestionRepository, act *MockActivityRepository) {},
			wantValidates: true,
		},
		{
			name:          "unknown priority",
			input:         CreateSuggestionInput{Title: "x", Description: "y", Category: "bug", Priority: "urgent"},
			setupMock:     func(s *MockSuggestionRepository, act *MockActivityRepository) {},
			wantValidates: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestionRepo := new(MockSuggestionRepository)
			activityRepo := new(MockActivityRepository)
			tt.setupMock(suggestionRepo, activityRepo)

			svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), activityRepo)
			suggestion, err := svc.Create(context.Background(), 7, tt.input)

			if tt.wantValidates {
				var ve *apperrors.ValidationError
				assert.ErrorAs(t, err, &ve)
				assert.Nil(t, suggestion)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, suggestion)
				assert.Equal(t, model.StatusNew, suggestion.Status)
			}

			suggestionRepo.AssertExpectations(t)
			activityRepo.AssertExpectations(t)
		})
	}
}

func TestSuggestionService_ListScopesNonAdmins(t *testing.T) {
	suggestionRepo := new(MockSuggestionRepository)
	suggestionRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.SuggestionFilter) bool {
		return f.UserID != nil && *f.UserID == uint(3)
	})).Return([]model.Suggestion{}, int64(0), nil)

	svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), new(MockActivityRepository))
	_, err := svc.List(context.Background(), 3, auth.RoleUser, ListOptions{})

	assert.NoError(t, err)
	suggestionRepo.AssertExpectations(t)
}

func TestSuggestionService_ListAdminSeesAll(t *testing.T) {
	suggestionRepo := new(MockSuggestionRepository)
	suggestionRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.SuggestionFilter) bool {
		return f.UserID == nil
	})).Return([]model.Suggestion{}, int64(0), nil)

	svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), new(MockActivityRepository))
	_, err := svc.List(context.Background(), 3, auth.RoleAdmin, ListOptions{})

	assert.NoError(t, err)
	suggestionRepo.AssertExpectations(t)
}

func TestSuggestionService_ListIgnoresInvalidFilters(t *testing.T) {
	suggestionRepo := new(MockSuggestionRepository)
	suggestionRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.SuggestionFilter) bool {
		return f.Status == "" && f.Category == "" && f.Priority == ""
	})).Return([]model.Suggestion{}, int64(0), nil)

	svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), new(MockActivityRepository))
	_, err := svc.List(context.Background(), 1, auth.RoleAdmin, ListOptions{
		Status:   "bogus",
		Category: "bogus",
		Priority: "bogus",
	})

	assert.NoError(t, err)
	suggestionRepo.AssertExpectations(t)
}

func TestSuggestionService_UpdateOwnership(t *testing.T) {
	tests := []struct {
		name          string
		requesterID   uint
		requesterRole string
		ownerID       uint
		expectedError error
	}{
		{name: "owner may edit", requesterID: 5, requesterRole: auth.RoleUser, ownerID: 5},
		{name: "admin may edit others", requesterID: 1, requesterRole: auth.RoleAdmin, ownerID: 5},
		{name: "stranger forbidden", requesterID: 2, requesterRole: auth.RoleUser, ownerID: 5, expectedError: apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestionRepo := new(MockSuggestionRepository)
			suggestionRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Suggestion{ID: 10, UserID: tt.ownerID}, nil)
			if tt.expectedError == nil {
				suggestionRepo.On("UpdateFields", mock.Anything, uint(10), mock.Anything).Return(nil)
			}

			svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), new(MockActivityRepository))
			_, err := svc.Update(context.Background(), 10, tt.requesterID, tt.requesterRole, UpdateSuggestionInput{Title: "New title"})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			suggestionRepo.AssertExpectations(t)
		})
	}
}

func TestSuggestionService_UpdateMissingSuggestion(t *testing.T) {
	suggestionRepo := new(MockSuggestionRepository)
	suggestionRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), new(MockActivityRepository))
	_, err := svc.Update(context.Background(), 99, 1, auth.RoleAdmin, UpdateSuggestionInput{Title: "x"})

	assert.ErrorIs(t, err, apperrors.ErrSuggestionNotFound)
}

func TestSuggestionService_DeleteOwnership(t *testing.T) {
	suggestionRepo := new(MockSuggestionRepository)
	suggestionRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Suggestion{ID: 10, UserID: 5}, nil)

	svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), new(MockActivityRepository))
	err := svc.Delete(context.Background(), 10, 2, auth.RoleUser)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	suggestionRepo.AssertExpectations(t)
}

func TestSuggestionService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		actorRole      string
		status         string
		rows           int64
		wantResolvedAt bool
		expectedError  error
		wantValidates  bool
	}{
		{name: "resolved stamps resolved_at", actorRole: auth.RoleAdmin, status: model.StatusResolved, rows: 1, wantResolvedAt: true},
		{name: "in_progress clears resolved_at", actorRole: auth.RoleAdmin, status: model.StatusInProgress, rows: 1},
		{name: "non-admin forbidden", actorRole: auth.RoleUser, status: model.StatusResolved, expectedError: apperrors.ErrForbidden},
		{name: "rejected not accepted here", actorRole: auth.RoleAdmin, status: "rejected", wantValidates: true},
		{name: "missing suggestion", actorRole: auth.RoleAdmin, status: model.StatusResolved, rows: 0, expectedError: apperrors.ErrSuggestionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestionRepo := new(MockSuggestionRepository)
			activityRepo := new(MockActivityRepository)

			if tt.expectedError == nil && !tt.wantValidates || tt.expectedError == apperrors.ErrSuggestionNotFound {
				suggestionRepo.On("UpdateStatus", mock.Anything, uint(10), tt.status, mock.MatchedBy(func(at *time.Time) bool {
					return (at != nil) == tt.wantResolvedAt
				})).Return(tt.rows, nil)
			}
			if tt.expectedError == nil && !tt.wantValidates {
				activityRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *model.ActivityLog) bool {
					return e.Action == model.ActionStatusChanged && e.NewValue == tt.status
				})).Return(nil)
				suggestionRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Suggestion{ID: 10, Status: tt.status}, nil)
			}

			svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), activityRepo)
			suggestion, err := svc.UpdateStatus(context.Background(), 10, 1, tt.actorRole, tt.status)

			switch {
			case tt.wantValidates:
				var ve *apperrors.ValidationError
				assert.ErrorAs(t, err, &ve)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.status, suggestion.Status)
			}

			suggestionRepo.AssertExpectations(t)
			activityRepo.AssertExpectations(t)
		})
	}
}

func TestSuggestionService_Stats(t *testing.T) {
	userID := uint(4)
	suggestionRepo := new(MockSuggestionRepository)
	suggestionRepo.On("CountByUser", mock.Anything, userID).Return(int64(12), nil)
	suggestionRepo.On("CountWithStatuses", mock.Anything, &userID, "Approved").Return(int64(2), nil)
	suggestionRepo.On("CountWithStatuses", mock.Anything, &userID, "Pending", model.StatusNew).Return(int64(7), nil)
	suggestionRepo.On("CountWithStatuses", mock.Anything, &userID, "Rejected").Return(int64(1), nil)
	suggestionRepo.On("GroupByStatus", mock.Anything, &userID).Return([]repository.StatusCount{{Status: "new", Count: 7}}, nil)
	suggestionRepo.On("GroupByCategory", mock.Anything, &userID).Return([]repository.CategoryCount{}, nil)
	suggestionRepo.On("GroupByPriority", mock.Anything, &userID).Return([]repository.PriorityCount{}, nil)

	svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), new(MockActivityRepository))
	stats, err := svc.Stats(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, int64(12), stats.Total)
	assert.Equal(t, int64(2), stats.Approved)
	assert.Equal(t, int64(7), stats.Pending)
	assert.Equal(t, int64(1), stats.Rejected)
	suggestionRepo.AssertExpectations(t)
}

func TestSuggestionService_GetByID(t *testing.T) {
	suggestionRepo := new(MockSuggestionRepository)
	attachmentRepo := new(MockAttachmentRepository)
	noteRepo := new(MockNoteRepository)

	suggestionRepo.On("FindByID", mock.Anything, uint(10)).Return(&model.Suggestion{ID: 10, Title: "t"}, nil)
	attachmentRepo.On("ListBySuggestion", mock.Anything, uint(10)).Return([]model.Attachment{{ID: 1}}, nil)
	noteRepo.On("ListBySuggestion", mock.Anything, uint(10)).Return([]model.DeveloperNote{{ID: 2}}, nil)

	svc := newSuggestionService(suggestionRepo, attachmentRepo, noteRepo, new(MockActivityRepository))
	detail, err := svc.GetByID(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, detail.Attachments, 1)
	assert.Len(t, detail.Notes, 1)
	suggestionRepo.AssertExpectations(t)
}

func TestSuggestionService_PublicStats(t *testing.T) {
	suggestionRepo := new(MockSuggestionRepository)
	suggestionRepo.On("CountAll", mock.Anything).Return(int64(42), nil)
	suggestionRepo.On("CountDistinctUsers", mock.Anything).Return(int64(9), nil)

	svc := newSuggestionService(suggestionRepo, new(MockAttachmentRepository), new(MockNoteRepository), new(MockActivityRepository))
	stats, err := svc.PublicStats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), stats.Total)
	assert.Equal(t, int64(9), stats.Users)
	suggestionRepo.AssertExpectations(t)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		limit     int
		wantPages int
	}{
		{name: "exact multiple", total: 20, page: 1, limit: 10, wantPages: 2},
		{name: "remainder rounds up", total: 21, page: 1, limit: 10, wantPages: 3},
		{name: "empty", total: 0, page: 1, limit: 10, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.wantPages, p.Pages)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}
