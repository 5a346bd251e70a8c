package service

import (
	"context"
	"errors"
	"fmt"
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
	defaultListLimit   = 10
	defaultPublicLimit = 6

	publicStatsCacheKey = "feedback:public:stats"
	publicStatsCacheTTL = time.Minute
)

// CreateSuggestionInput carries the fields accepted when filing a
// suggestion. Status is always forced to "new".
type CreateSuggestionInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	ImageURL    string
}

// UpdateSuggestionInput carries a partial suggestion update; empty fields
// are left unchanged.
type UpdateSuggestionInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	ImageURL    string
}

// ListOptions narrows and paginates suggestion listings.
type ListOptions struct {
	Status   string
	Category string
	Priority string
	Search   string
	Page     int
	Limit    int
}

// ListResult is one page of suggestions with pagination metadata.
type ListResult struct {
	Data       []model.Suggestion `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

// SuggestionDetail is a suggestion joined with its attachments and
// developer notes. Notes are included regardless of requester role here;
// the dedicated admin note endpoints are separately gated.
type SuggestionDetail struct {
	model.Suggestion
	Attachments []model.Attachment    `json:"attachments"`
	Notes       []model.DeveloperNote `json:"notes"`
}

// UserStats aggregates one user's suggestions. The approved/pending/
// rejected buckets count legacy status literals kept for dashboard
// compatibility.
type UserStats struct {
	Total      int64                      `json:"total"`
	Approved   int64                      `json:"approved"`
	Pending    int64                      `json:"pending"`
	Rejected   int64                      `json:"rejected"`
	ByStatus   []repository.StatusCount   `json:"byStatus"`
	ByCategory []repository.CategoryCount `json:"byCategory"`
	ByPriority []repository.PriorityCount `json:"byPriority"`
}

// PublicStats is the unauthenticated landing-page counter pair.
type PublicStats struct {
	Total int64 `json:"total"`
	Users int64 `json:"users"`
}

// SuggestionService implements the suggestion lifecycle.
type SuggestionService interface {
	Create(ctx context.Context, userID uint, in CreateSuggestionInput) (*model.Suggestion, error)
	List(ctx context.Context, requesterID uint, requesterRole string, opts ListOptions) (*ListResult, error)
	GetByID(ctx context.Context, id uint) (*SuggestionDetail, error)
	Update(ctx context.Context, id, requesterID uint, requesterRole string, in UpdateSuggestionInput) (*model.Suggestion, error)
	Delete(ctx context.Context, id, requesterID uint, requesterRole string) error
	UpdateStatus(ctx context.Context, id, actorID uint, actorRole, status string) (*model.Suggestion, error)
	Stats(ctx context.Context, userID uint) (*UserStats, error)
	PublicList(ctx context.Context, opts ListOptions) (*ListResult, error)
	PublicStats(ctx context.Context) (*PublicStats, error)
}

type suggestionService struct {
	suggestionRepo repository.SuggestionRepository
	attachmentRepo repository.AttachmentRepository
	noteRepo       repository.NoteRepository
	activityRepo   repository.ActivityRepository
	cache          *cache.Client
}

// NewSuggestionService creates a new suggestion service.
func NewSuggestionService(
	suggestionRepo repository.SuggestionRepository,
	attachmentRepo repository.AttachmentRepository,
	noteRepo repository.NoteRepository,
	activityRepo repository.ActivityRepository,
	cacheClient *cache.Client,
) SuggestionService {
	return &suggestionService{
		suggestionRepo: suggestionRepo,
		attachmentRepo: attachmentRepo,
		noteRepo:       noteRepo,
		activityRepo:   activityRepo,
		cache:          cacheClient,
	}
}

// Create files a new suggestion with status "new" and appends a "created"
// activity entry.
func (s *suggestionService) Create(ctx context.Context, userID uint, in CreateSuggestionInput) (*model.Suggestion, error) {
	if in.Title == "" || in.Description == "" || in.Category == "" {
		return nil, apperrors.NewValidation("Title, description, and category are required")
	}
	if !validation.IsValidCategory(in.Category) {
		return nil, apperrors.NewValidation("Invalid category")
	}
	if in.Priority != "" && !validation.IsValidPriority(in.Priority) {
		return nil, apperrors.NewValidation("Invalid priority")
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	suggestion := &model.Suggestion{
		Title:       validation.Sanitize(in.Title),
		Description: validation.Sanitize(in.Description),
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Priority:    priority,
		Status:      model.StatusNew,
		UserID:      userID,
	}
	if err := s.suggestionRepo.Create(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}

	entry := &model.ActivityLog{
		SuggestionID: suggestion.ID,
		UserID:       userID,
		Action:       model.ActionCreated,
		NewValue:     "Suggestion created: " + suggestion.Title,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("log activity: %w", err)
	}

	metrics.SuggestionsCreatedTotal.WithLabelValues(suggestion.Category).Inc()
	return suggestion, nil
}

// List returns a page of suggestions. Non-admin requesters are always
// scoped to their own rows; no query-string filter can widen that.
func (s *suggestionService) List(ctx context.Context, requesterID uint, requesterRole string, opts ListOptions) (*ListResult, error) {
	page, limit, offset := normalizePage(opts.Page, opts.Limit, defaultListLimit)

	filter := repository.SuggestionFilter{
		Search: opts.Search,
		Offset: offset,
		Limit:  limit,
	}
	if !auth.IsAdmin(requesterRole) {
		filter.UserID = &requesterID
	}
	// Invalid enum filters are ignored rather than rejected.
	if validation.IsValidStatus(opts.Status) {
		filter.Status = opts.Status
	}
	if validation.IsValidCategory(opts.Category) {
		filter.Category = opts.Category
	}
	if validation.IsValidPriority(opts.Priority) {
		filter.Priority = opts.Priority
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

// GetByID loads a suggestion with its owner, attachments, and developer
// notes.
func (s *suggestionService) GetByID(ctx context.Context, id uint) (*SuggestionDetail, error) {
	suggestion, err := s.suggestionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("find suggestion: %w", err)
	}

	attachments, err := s.attachmentRepo.ListBySuggestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	notes, err := s.noteRepo.ListBySuggestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return &SuggestionDetail{
		Suggestion:  *suggestion,
		Attachments: attachments,
		Notes:       notes,
	}, nil
}

// Update applies a partial edit; only the owner or an admin may change a
// suggestion.
func (s *suggestionService) Update(ctx context.Context, id, requesterID uint, requesterRole string, in UpdateSuggestionInput) (*model.Suggestion, error) {
	existing, err := s.suggestionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("find suggestion: %w", err)
	}
	if !auth.CanModify(requesterID, requesterRole, existing.UserID) {
		return nil, apperrors.ErrForbidden
	}

	fields := map[string]interface{}{}
	if in.Title != "" {
		fields["title"] = validation.Sanitize(in.Title)
	}
	if in.Description != "" {
		fields["description"] = validation.Sanitize(in.Description)
	}
	if in.Category != "" && validation.IsValidCategory(in.Category) {
		fields["category"] = in.Category
	}
	if in.Priority != "" && validation.IsValidPriority(in.Priority) {
		fields["priority"] = in.Priority
	}
	if in.ImageURL != "" {
		fields["image_url"] = in.ImageURL
	}
	if len(fields) == 0 {
		return nil, apperrors.NewValidation("No valid fields to update")
	}

	if err := s.suggestionRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update suggestion: %w", err)
	}
	return s.suggestionRepo.FindByID(ctx, id)
}

// Delete hard-deletes a suggestion; only the owner or an admin may do so.
func (s *suggestionService) Delete(ctx context.Context, id, requesterID uint, requesterRole string) error {
	existing, err := s.suggestionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrSuggestionNotFound
		}
		return fmt.Errorf("find suggestion: %w", err)
	}
	if !auth.CanModify(requesterID, requesterRole, existing.UserID) {
		return apperrors.ErrForbidden
	}

	if _, err := s.suggestionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete suggestion: %w", err)
	}
	return nil
}

// UpdateStatus is the admin-only status transition on the user-facing API.
// It accepts the shared three-value status set; "resolved" stamps
// resolved_at and any other value clears it.
func (s *suggestionService) UpdateStatus(ctx context.Context, id, actorID uint, actorRole, status string) (*model.Suggestion, error) {
	if !auth.IsAdmin(actorRole) {
		return nil, apperrors.ErrForbidden
	}
	if !validation.IsValidStatus(status) {
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

	entry := &model.ActivityLog{
		SuggestionID: id,
		UserID:       actorID,
		Action:       model.ActionStatusChanged,
		NewValue:     status,
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("log activity: %w", err)
	}

	metrics.StatusChangesTotal.WithLabelValues(status).Inc()
	return s.suggestionRepo.FindByID(ctx, id)
}

// Stats aggregates the requesting user's own suggestions.
func (s *suggestionService) Stats(ctx context.Context, userID uint) (*UserStats, error) {
	total, err := s.suggestionRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count suggestions: %w", err)
	}

	// Legacy dashboard buckets: older rows carry capitalised status
	// literals that the current enum never produces.
	approved, err := s.suggestionRepo.CountWithStatuses(ctx, &userID, "Approved")
	if err != nil {
		return nil, err
	}
	pending, err := s.suggestionRepo.CountWithStatuses(ctx, &userID, "Pending", model.StatusNew)
	if err != nil {
		return nil, err
	}
	rejected, err := s.suggestionRepo.CountWithStatuses(ctx, &userID, "Rejected")
	if err != nil {
		return nil, err
	}

	byStatus, err := s.suggestionRepo.GroupByStatus(ctx, &userID)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.suggestionRepo.GroupByCategory(ctx, &userID)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.suggestionRepo.GroupByPriority(ctx, &userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		Total:      total,
		Approved:   approved,
		Pending:    pending,
		Rejected:   rejected,
		ByStatus:   byStatus,
		ByCategory: byCategory,
		ByPriority: byPriority,
	}, nil
}

// PublicList is the unauthenticated board view: status/category filters
// only, smaller default page size, never scoped to a user.
func (s *suggestionService) PublicList(ctx context.Context, opts ListOptions) (*ListResult, error) {
	page, limit, offset := normalizePage(opts.Page, opts.Limit, defaultPublicLimit)

	filter := repository.SuggestionFilter{
		Offset: offset,
		Limit:  limit,
	}
	if validation.IsValidStatus(opts.Status) {
		filter.Status = opts.Status
	}
	if validation.IsValidCategory(opts.Category) {
		filter.Category = opts.Category
	}

	suggestions, total, err := s.suggestionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list public suggestions: %w", err)
	}

	return &ListResult{
		Data:       suggestions,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// PublicStats returns the landing-page counters, cached briefly.
func (s *suggestionService) PublicStats(ctx context.Context) (*PublicStats, error) {
	var cached PublicStats
	if s.cache.GetJSON(ctx, publicStatsCacheKey, &cached) {
		return &cached, nil
	}

	total, err := s.suggestionRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count suggestions: %w", err)
	}
	users, err := s.suggestionRepo.CountDistinctUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contributors: %w", err)
	}

	stats := &PublicStats{Total: total, Users: users}
	s.cache.SetJSON(ctx, publicStatsCacheKey, stats, publicStatsCacheTTL)
	return stats, nil
}
