package model

import "time"

// DeveloperNote is an admin-authored annotation attached to a suggestion.
type DeveloperNote struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SuggestionID uint      `json:"suggestion_id" gorm:"not null;index"`
	AdminID      uint      `json:"admin_id" gorm:"not null;index"`
	Admin        *User     `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	Note         string    `json:"note" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
