package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/model"
)

// NoteRepository defines developer note persistence operations.
type NoteRepository interface {
	Create(ctx context.Context, note *model.DeveloperNote) error
	FindByID(ctx context.Context, id uint) (*model.DeveloperNote, error)
	ListBySuggestion(ctx context.Context, suggestionID uint) ([]model.DeveloperNote, error)
	Update(ctx context.Context, id uint, note string) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new developer note repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.DeveloperNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) FindByID(ctx context.Context, id uint) (*model.DeveloperNote, error) {
	var note model.DeveloperNote
	if err := r.db.WithContext(ctx).Preload("Admin").First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) ListBySuggestion(ctx context.Context, suggestionID uint) ([]model.DeveloperNote, error) {
	var notes []model.DeveloperNote
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Where("suggestion_id = ?", suggestionID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *noteRepository) Update(ctx context.Context, id uint, note string) error {
	return r.db.WithContext(ctx).Model(&model.DeveloperNote{}).
		Where("id = ?", id).
		Update("note", note).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.DeveloperNote{}, id)
	return res.RowsAffected, res.Error
}
