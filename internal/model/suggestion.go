package model

import "time"

// Suggestion status, category, and priority values. The "rejected" status is
// only set through the admin moderation path.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"

	PriorityMedium = "medium"
)

// Suggestion is a user-submitted feedback item. Status is mutated by admins
// only; resolved_at is stamped when status becomes "resolved" and cleared on
// any other transition.
type Suggestion struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text;not null"`
	ImageURL    string     `json:"image_url,omitempty" gorm:"size:500"`
	Category    string     `json:"category" gorm:"size:20;not null;index"`
	Priority    string     `json:"priority" gorm:"size:20;not null;default:'medium';index"`
	Status      string     `json:"status" gorm:"size:20;not null;default:'new';index"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	User        *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// NotesCount is populated by list queries via a subselect; it is not a
	// column on the suggestions table.
	NotesCount int64 `json:"notes_count" gorm:"->;-:migration"`
}
