package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/model"
)

// AttachmentRepository reads attachment rows for suggestion detail views.
type AttachmentRepository interface {
	ListBySuggestion(ctx context.Context, suggestionID uint) ([]model.Attachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new attachment repository.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) ListBySuggestion(ctx context.Context, suggestionID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).
		Where("suggestion_id = ?", suggestionID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}
