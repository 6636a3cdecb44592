package models

import (
	"gorm.io/datatypes"
)

// Role is the closed set of account roles. Route gating and capability
// checks dispatch on it; there is no other role source.
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// UserStatus: admin "suspend" is a flag, users are never hard-deleted.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is the canonical account record. TotalPoints is a denormalized
// counter over the completion ledger; the ledger is the source of truth
// and the reconciler worker repairs any drift.
type User struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Name       string     `gorm:"not null" json:"name"`
	Role       Role       `gorm:"type:varchar(16);not null;default:'student'" json:"role"`
	Status     UserStatus `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	ExternalID *string    `gorm:"uniqueIndex" json:"external_id,omitempty"` // identity provider id, e.g. Google sub

	Avatar     string                      `json:"avatar,omitempty"`
	College    string                      `gorm:"index" json:"college,omitempty"`
	Skills     datatypes.JSONSlice[string] `json:"skills,omitempty"`
	Experience string                      `gorm:"type:text" json:"experience,omitempty"`
	ResumeURL  string                      `gorm:"type:text" json:"resume_url,omitempty"`

	TotalPoints int64 `gorm:"not null;default:0" json:"total_points"`

	Timestamps
}

// PublicProfile is the wire shape returned by the user endpoints.
// It never carries internal-only columns.
type PublicProfile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status"`
	Avatar      string     `json:"avatar,omitempty"`
	College     string     `json:"college,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	Experience  string     `json:"experience,omitempty"`
	ResumeURL   string     `json:"resume_url,omitempty"`
	TotalPoints int64      `json:"total_points"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Status:      u.Status,
		Avatar:      u.Avatar,
		College:     u.College,
		Skills:      u.Skills,
		Experience:  u.Experience,
		ResumeURL:   u.ResumeURL,
		TotalPoints: u.TotalPoints,
	}
}
