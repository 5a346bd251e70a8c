package model

import "time"

// User represents an account in the system. Username and email are stored
// lower-cased; the password hash is never exposed in JSON.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:30;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	FullName     string    `json:"full_name" gorm:"size:255"`
	Role         string    `json:"role" gorm:"size:20;not null;default:'user';index"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	AvatarURL    string    `json:"avatar_url" gorm:"size:500"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
