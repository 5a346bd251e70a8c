package model

import "time"

// Activity log action tags written by the suggestion service.
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
)

// ActivityLog is an append-only record of suggestion lifecycle events. Rows
// are never updated or deleted by this system.
type ActivityLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SuggestionID uint      `json:"suggestion_id" gorm:"not null;index"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Action       string    `json:"action" gorm:"size:50;not null"`
	NewValue     string    `json:"new_value" gorm:"size:1000"`
	CreatedAt    time.Time `json:"created_at"`
}
