package model

import "time"

// Attachment is a file reference joined into suggestion detail views. The
// upload path that writes these rows is an external collaborator; this
// service only reads them.
type Attachment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SuggestionID uint      `json:"suggestion_id" gorm:"not null;index"`
	FileName     string    `json:"file_name" gorm:"size:255;not null"`
	FilePath     string    `json:"file_path" gorm:"size:500;not null"`
	FileType     string    `json:"file_type" gorm:"size:100"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
}
