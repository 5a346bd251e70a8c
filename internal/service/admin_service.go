package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/auth"
	"github.com/happytweet/feedback-api/internal/cache"
	apperrors "github.com/happytweet/feedback-api/internal/errors"
	"github.com/happytweet/feedback-api/internal/metrics"
	"github.com/happytweet/feedback-api/internal/model"
	"github.com/happytweet/feedback-api/internal/repository"
	"github.com/happytweet/feedback-api/internal/validation"
)

const (
	analyticsCacheKey = "feedback:admin:analytics"
	analyticsCacheTTL = time.Minute

	topContributorsLimit = 10
	latestActivityLimit  = 10
	perDayWindow         = 30
)

// UserListResult is one page of users with pagination metadata.
type UserListResult struct {
	Data       []model.User `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// AdminStats is the dashboard headline counter set.
type AdminStats struct {
	TotalUsers            int64 `json:"totalUsers"`
	TotalSuggestions      int64 `json:"totalSuggestions"`
	NewSuggestions        int64 `json:"newSuggestions"`
	InProgressSuggestions int64 `json:"inProgressSuggestions"`
	ResolvedSuggestions   int64 `json:"resolvedSuggestions"`
}

// Analytics is the full admin analytics payload.
type Analytics struct {
	TotalUsers            int64                      `json:"totalUsers"`
	TotalSuggestions      int64                      `json:"totalSuggestions"`
	SuggestionsByStatus   []repository.StatusCount   `json:"suggestionsByStatus"`
	SuggestionsByCategory []repository.CategoryCount `json:"suggestionsByCategory"`
	TopContributors       []repository.Contributor   `json:"topContributors"`
	SuggestionsPerDay     []repository.DayCount      `json:"suggestionsPerDay"`
	LatestActivity        []model.Suggestion         `json:"latestActivity"`
}

// AdminService implements user management, suggestion moderation, developer
// notes, analytics, and the CSV export.
type AdminService interface {
	ListUsers(ctx context.Context, search string, page, limit int) (*UserListResult, error)
	UpdateUserRole(ctx context.Context, userID uint, role string) (*model.User, error)
	UpdateUserStatus(ctx context.Context, userID uint, isActive bool) (*model.User, error)
	DeleteUser(ctx context.Context, actorID, userID uint) error
	ListSuggestions(ctx context.Context, opts ListOptions) (*ListResult, error)
	UpdateSuggestionStatus(ctx context.Context, id uint, status string) (*model.Suggestion, error)
	DeleteSuggestion(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*AdminStats, error)
	AddNote(ctx context.Context, suggestionID, adminID uint, note string) (*model.DeveloperNote, error)
	GetNotes(ctx context.Context, suggestionID uint) ([]model.DeveloperNote, error)
	UpdateNote(ctx context.Context, noteID, actorID uint, actorRole, note string) (*model.DeveloperNote, error)
	DeleteNote(ctx context.Context, noteID, actorID uint, actorRole string) error
	Analytics(ctx context.Context) (*Analytics, error)
	ExportCSV(ctx context.Context) (string, error)
}

type adminService struct {
	userRepo       repository.UserRepository
	suggestionRepo repository.SuggestionRepository
	noteRepo       repository.NoteRepository
	cache          *cache.Client
}

// NewAdminService creates a new admin service.
func NewAdminService(
	userRepo repository.UserRepository,
	suggestionRepo repository.SuggestionRepository,
	noteRepo repository.NoteRepository,
	cacheClient *cache.Client,
) AdminService {
	return &adminService{
		userRepo:       userRepo,
		suggestionRepo: suggestionRepo,
		noteRepo:       noteRepo,
		cache:          cacheClient,
	}
}

func (s *adminService) ListUsers(ctx context.Context, search string, page, limit int) (*UserListResult, error) {
	p, l, offset := normalizePage(page, limit, defaultListLimit)

	users, total, err := s.userRepo.List(ctx, search, offset, l)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &UserListResult{
		Data:       users,
		Pagination: NewPagination(total, p, l),
	}, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, userID uint, role string) (*model.User, error) {
	if !auth.IsValidRole(role) {
		return nil, apperrors.NewValidation("Invalid role")
	}

	rows, err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"role": role})
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	if rows == 0 {
		// Updating to the current value also reports zero rows on MySQL,
		// so verify existence before declaring the user missing.
		if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, err
		}
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userID uint, isActive bool) (*model.User, error) {
	if _, err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"is_active": isActive}); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account and all of its suggestions. Admin accounts
// may only be deleted by themselves.
func (s *adminService) DeleteUser(ctx context.Context, actorID, userID uint) error {
	target, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if target.Role == auth.RoleAdmin && actorID != userID {
		return apperrors.ErrCannotDeleteAdmin
	}

	if err := s.userRepo.DeleteWithSuggestions(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ListSuggestions is the unscoped moderation listing.
func (s *adminService) ListSuggestions(ctx context.Context, opts ListOptions) (*ListResult, error) {
	page, limit, offset := normalizePage(opts.Page, opts.Limit, defaultListLimit)

	filter := repository.SuggestionFilter{
		Status:   opts.Status,
		Category: opts.Category,
		Offset:   offset,
		Limit:    limit,
	}
	suggestions, total, err := s.suggestionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return &ListResult{
		Data:       suggestions,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// UpdateSuggestionStatus is the moderation transition. Unlike the shared
// validator it also accepts "rejected". The resolved_at stamp follows the
// same rule as the user-facing path.
func (s *adminService) UpdateSuggestionStatus(ctx context.Context, id uint, status string) (*model.Suggestion, error) {
	if !validation.IsValidAdminStatus(status) {
		return nil, apperrors.NewValidation("Invalid status")
	}

	var resolvedAt *time.Time
	if status == model.StatusResolved {
		now := time.Now()
		resolvedAt = &now
	}

	rows, err := s.suggestionRepo.UpdateStatus(ctx, id, status, resolvedAt)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.ErrSuggestionNotFound
	}

	metrics.StatusChangesTotal.WithLabelValues(status).Inc()
	return s.suggestionRepo.FindByID(ctx, id)
}

func (s *adminService) DeleteSuggestion(ctx context.Context, id uint) error {
	rows, err := s.suggestionRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete suggestion: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrSuggestionNotFound
	}
	return nil
}

func (s *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	totalUsers, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalSuggestions, err := s.suggestionRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	newCount, err := s.suggestionRepo.CountWithStatuses(ctx, nil, model.StatusNew)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.suggestionRepo.CountWithStatuses(ctx, nil, model.StatusInProgress)
	if err != nil {
		return nil, err
	}
	resolved, err := s.suggestionRepo.CountWithStatuses(ctx, nil, model.StatusResolved)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalUsers:            totalUsers,
		TotalSuggestions:      totalSuggestions,
		NewSuggestions:        newCount,
		InProgressSuggestions: inProgress,
		ResolvedSuggestions:   resolved,
	}, nil
}

func (s *adminService) AddNote(ctx context.Context, suggestionID, adminID uint, note string) (*model.DeveloperNote, error) {
	if strings.TrimSpace(note) == "" {
		return nil, apperrors.NewValidation("Note cannot be empty")
	}

	if _, err := s.suggestionRepo.FindByID(ctx, suggestionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("find suggestion: %w", err)
	}

	created := &model.DeveloperNote{
		SuggestionID: suggestionID,
		AdminID:      adminID,
		Note:         validation.Sanitize(note),
	}
	if err := s.noteRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return s.noteRepo.FindByID(ctx, created.ID)
}

func (s *adminService) GetNotes(ctx context.Context, suggestionID uint) ([]model.DeveloperNote, error) {
	notes, err := s.noteRepo.ListBySuggestion(ctx, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote edits a note's text. The author check below is unreachable in
// practice because these endpoints are admin-gated at the route level; it is
// kept to mirror the documented ownership rule.
func (s *adminService) UpdateNote(ctx context.Context, noteID, actorID uint, actorRole, note string) (*model.DeveloperNote, error) {
	if strings.TrimSpace(note) == "" {
		return nil, apperrors.NewValidation("Note cannot be empty")
	}

	existing, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	if existing.AdminID != actorID && actorRole != auth.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	if err := s.noteRepo.Update(ctx, noteID, validation.Sanitize(note)); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.noteRepo.FindByID(ctx, noteID)
}

func (s *adminService) DeleteNote(ctx context.Context, noteID, actorID uint, actorRole string) error {
	existing, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoteNotFound
		}
		return fmt.Errorf("find note: %w", err)
	}
	if existing.AdminID != actorID && actorRole != auth.RoleAdmin {
		return apperrors.ErrForbidden
	}

	if _, err := s.noteRepo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// Analytics builds the dashboard aggregate payload, cached briefly.
func (s *adminService) Analytics(ctx context.Context) (*Analytics, error) {
	var cached Analytics
	if s.cache.GetJSON(ctx, analyticsCacheKey, &cached) {
		return &cached, nil
	}

	totalUsers, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalSuggestions, err := s.suggestionRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.suggestionRepo.GroupByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.suggestionRepo.GroupByCategory(ctx, nil)
	if err != nil {
		return nil, err
	}
	contributors, err := s.suggestionRepo.TopContributors(ctx, topContributorsLimit)
	if err != nil {
		return nil, err
	}
	perDay, err := s.suggestionRepo.PerDay(ctx, perDayWindow)
	if err != nil {
		return nil, err
	}
	latest, err := s.suggestionRepo.Latest(ctx, latestActivityLimit)
	if err != nil {
		return nil, err
	}

	analytics := &Analytics{
		TotalUsers:            totalUsers,
		TotalSuggestions:      totalSuggestions,
		SuggestionsByStatus:   byStatus,
		SuggestionsByCategory: byCategory,
		TopContributors:       contributors,
		SuggestionsPerDay:     perDay,
		LatestActivity:        latest,
	}
	s.cache.SetJSON(ctx, analyticsCacheKey, analytics, analyticsCacheTTL)
	return analytics, nil
}

// ExportCSV serialises every suggestion with its submitter identity.
// Embedded double quotes are doubled inside quoted fields per RFC 4180.
func (s *adminService) ExportCSV(ctx context.Context) (string, error) {
	suggestions, err := s.suggestionRepo.AllWithUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("load suggestions: %w", err)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"ID", "Title", "Description", "Category", "Priority", "Status",
		"Submitted By", "Email", "Created At", "Updated At", "Resolved At"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sug := range suggestions {
		username, email := "", ""
		if sug.User != nil {
			username = sug.User.Username
			email = sug.User.Email
		}
		resolvedAt := ""
		if sug.ResolvedAt != nil {
			resolvedAt = sug.ResolvedAt.Format(time.RFC3339)
		}

		record := []string{
			strconv.FormatUint(uint64(sug.ID), 10),
			sug.Title,
			sug.Description,
			sug.Category,
			sug.Priority,
			sug.Status,
			username,
			email,
			sug.CreatedAt.Format(time.RFC3339),
			sug.UpdatedAt.Format(time.RFC3339),
			resolvedAt,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	metrics.CSVExportsTotal.Inc()
	return sb.String(), nil
}
