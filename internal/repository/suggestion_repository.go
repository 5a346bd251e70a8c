package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/model"
)

// notesCountSelect attaches a per-row developer note count to list queries.
const notesCountSelect = "suggestions.*, (SELECT COUNT(*) FROM developer_notes WHERE developer_notes.suggestion_id = suggestions.id) AS notes_count"

// SuggestionFilter narrows list queries. A nil UserID means no owner scoping
// (admin view); services set it for non-admin requesters.
type SuggestionFilter struct {
	UserID   *uint
	Status   string
	Category string
	Priority string
	Search   string
	Offset   int
	Limit    int
}

// StatusCount is a grouped count keyed by status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CategoryCount is a grouped count keyed by category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// PriorityCount is a grouped count keyed by priority.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// DayCount is a per-day suggestion count for trend charts.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Contributor is a user ranked by submitted suggestion count.
type Contributor struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	FullName         string `json:"full_name"`
	AvatarURL        string `json:"avatar_url"`
	SuggestionsCount int64  `json:"suggestions_count"`
}

// SuggestionRepository defines suggestion persistence operations.
type SuggestionRepository interface {
	Create(ctx context.Context, suggestion *model.Suggestion) error
	FindByID(ctx context.Context, id uint) (*model.Suggestion, error)
	List(ctx context.Context, f SuggestionFilter) ([]model.Suggestion, int64, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id uint, status string, resolvedAt *time.Time) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountWithStatuses(ctx context.Context, userID *uint, statuses ...string) (int64, error)
	CountDistinctUsers(ctx context.Context) (int64, error)
	GroupByStatus(ctx context.Context, userID *uint) ([]StatusCount, error)
	GroupByCategory(ctx context.Context, userID *uint) ([]CategoryCount, error)
	GroupByPriority(ctx context.Context, userID *uint) ([]PriorityCount, error)
	PerDay(ctx context.Context, days int) ([]DayCount, error)
	TopContributors(ctx context.Context, limit int) ([]Contributor, error)
	Latest(ctx context.Context, limit int) ([]model.Suggestion, error)
	AllWithUsers(ctx context.Context) ([]model.Suggestion, error)
}

type suggestionRepository struct {
	db *gorm.DB
}

// NewSuggestionRepository creates a new suggestion repository.
func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) Create(ctx context.Context, suggestion *model.Suggestion) error {
	return r.db.WithContext(ctx).Create(suggestion).Error
}

func (r *suggestionRepository) FindByID(ctx context.Context, id uint) (*model.Suggestion, error) {
	var suggestion model.Suggestion
	err := r.db.WithContext(ctx).Preload("User").First(&suggestion, id).Error
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// filtered builds a fresh query scoped by f. Built per call because GORM
// queries accumulate conditions.
func (r *suggestionRepository) filtered(ctx context.Context, f SuggestionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Suggestion{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	return q
}

func (r *suggestionRepository) List(ctx context.Context, f SuggestionFilter) ([]model.Suggestion, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var suggestions []model.Suggestion
	err := r.filtered(ctx, f).
		Select(notesCountSelect).
		Preload("User").
		Order("created_at DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&suggestions).Error
	if err != nil {
		return nil, 0, err
	}
	return suggestions, total, nil
}

func (r *suggestionRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Suggestion{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpdateStatus sets status and resolved_at together and returns the number
// of affected rows.
func (r *suggestionRepository) UpdateStatus(ctx context.Context, id uint, status string, resolvedAt *time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Suggestion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *suggestionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Suggestion{}, id)
	return res.RowsAffected, res.Error
}

func (r *suggestionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Suggestion{}).Count(&count).Error
	return count, err
}

func (r *suggestionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Suggestion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountWithStatuses counts suggestions whose status is in statuses,
// optionally scoped to one user.
func (r *suggestionRepository) CountWithStatuses(ctx context.Context, userID *uint, statuses ...string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Suggestion{}).Where("status IN ?", statuses)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *suggestionRepository) CountDistinctUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Suggestion{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func (r *suggestionRepository) GroupByStatus(ctx context.Context, userID *uint) ([]StatusCount, error) {
	q := r.db.WithContext(ctx).Model(&model.Suggestion{}).
		Select("status, COUNT(*) as count").
		Group("status")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var rows []StatusCount
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *suggestionRepository) GroupByCategory(ctx context.Context, userID *uint) ([]CategoryCount, error) {
	q := r.db.WithContext(ctx).Model(&model.Suggestion{}).
		Select("category, COUNT(*) as count").
		Group("category")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var rows []CategoryCount
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *suggestionRepository) GroupByPriority(ctx context.Context, userID *uint) ([]PriorityCount, error) {
	q := r.db.WithContext(ctx).Model(&model.Suggestion{}).
		Select("priority, COUNT(*) as count").
		Group("priority")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var rows []PriorityCount
	err := q.Scan(&rows).Error
	return rows, err
}

// PerDay returns suggestion counts per calendar day for the trailing window.
func (r *suggestionRepository) PerDay(ctx context.Context, days int) ([]DayCount, error) {
	var rows []DayCount
	err := r.db.WithContext(ctx).Raw(
		`SELECT DATE(created_at) as date, COUNT(*) as count
		 FROM suggestions
		 WHERE created_at >= DATE_SUB(NOW(), INTERVAL ? DAY)
		 GROUP BY DATE(created_at)
		 ORDER BY date DESC`, days).Scan(&rows).Error
	return rows, err
}

// TopContributors ranks non-admin users by submitted suggestion count.
func (r *suggestionRepository) TopContributors(ctx context.Context, limit int) ([]Contributor, error) {
	var rows []Contributor
	err := r.db.WithContext(ctx).Raw(
		`SELECT u.id, u.username, u.full_name, u.avatar_url, COUNT(s.id) as suggestions_count
		 FROM users u
		 LEFT JOIN suggestions s ON u.id = s.user_id
		 WHERE u.role = 'user'
		 GROUP BY u.id, u.username, u.full_name, u.avatar_url
		 ORDER BY suggestions_count DESC
		 LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}

// Latest returns the most recently updated suggestions with their owners.
func (r *suggestionRepository) Latest(ctx context.Context, limit int) ([]model.Suggestion, error) {
	var suggestions []model.Suggestion
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("updated_at DESC").
		Limit(limit).
		Find(&suggestions).Error
	return suggestions, err
}

// AllWithUsers returns every suggestion joined with its submitter, newest
// first. Used by the CSV export.
func (r *suggestionRepository) AllWithUsers(ctx context.Context) ([]model.Suggestion, error) {
	var suggestions []model.Suggestion
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&suggestions).Error
	return suggestions, err
}
