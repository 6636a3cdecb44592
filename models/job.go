package models

import (
	"time"

	"gorm.io/datatypes"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusPublished JobStatus = "published"
	JobStatusScheduled JobStatus = "scheduled"
)

// Job is a recruiter posting. Scheduled postings carry a PublishAt and
// stay invisible to the board until the scheduler flips them.
type Job struct {
	ID          string                      `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Company     string                      `gorm:"not null" json:"company"`
	Location    string                      `json:"location,omitempty"`
	Type        JobType                     `gorm:"type:varchar(16)" json:"type,omitempty"`
	Description string                      `gorm:"type:text" json:"description,omitempty"`
	Skills      datatypes.JSONSlice[string] `json:"skills,omitempty"`
	Salary      string                      `json:"salary,omitempty"`
	RecruiterID string                      `gorm:"index;not null" json:"recruiter_id"`
	Slug        string                      `gorm:"uniqueIndex;not null" json:"slug"`
	Status      JobStatus                   `gorm:"type:varchar(16);not null;default:'published';index" json:"status"`
	PostedAt    time.Time                   `gorm:"index" json:"posted_at"`
	PublishAt   *time.Time                  `json:"publish_at,omitempty"`

	Timestamps
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed,
		ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application links a student to a job. The composite unique index is the
// duplicate-application guard; the service relies on it rather than on its
// own pre-check alone.
type Application struct {
	ID        string            `gorm:"primaryKey;type:uuid" json:"id"`
	JobID     string            `gorm:"not null;uniqueIndex:idx_applications_job_user" json:"job_id"`
	UserID    string            `gorm:"not null;uniqueIndex:idx_applications_job_user" json:"user_id"`
	Status    ApplicationStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	AppliedAt time.Time         `gorm:"index" json:"applied_at"`

	Timestamps
}
