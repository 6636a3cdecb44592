package models

import (
	"fmt"
	"time"
)

// TaskPolicy governs how often the same user may be credited for a task.
type TaskPolicy string

const (
	TaskPolicyDaily      TaskPolicy = "daily"
	TaskPolicyOnce       TaskPolicy = "once"
	TaskPolicyRepeatable TaskPolicy = "repeatable"
)

func (p TaskPolicy) Valid() bool {
	switch p {
	case TaskPolicyDaily, TaskPolicyOnce, TaskPolicyRepeatable:
		return true
	}
	return false
}

// Task is an admin-defined unit of gamified work with a fixed point value.
type Task struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Points      int64      `gorm:"not null" json:"points"`
	Policy      TaskPolicy `gorm:"type:varchar(16);not null" json:"type"`
	Active      bool       `gorm:"not null;default:true" json:"is_active"`

	Timestamps
}

// TaskCompletion is an append-only ledger entry. PointsEarned snapshots
// the task's value at completion time so later task edits never rewrite
// history. DedupeKey carries the policy's uniqueness constraint into the
// store: "user:task" for once, "user:task:day" for daily, the row's own
// id for repeatable. The unique index is what makes concurrent
// check-then-insert attempts safe.
type TaskCompletion struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"index;not null" json:"user_id"`
	TaskID       string    `gorm:"index;not null" json:"task_id"`
	CompletedAt  time.Time `gorm:"index;not null" json:"completed_at"`
	PointsEarned int64     `gorm:"not null" json:"points_earned"`
	DedupeKey    string    `gorm:"uniqueIndex;not null" json:"-"`
}

// OnceDedupeKey and DailyDedupeKey build the ledger uniqueness keys.
func OnceDedupeKey(userID, taskID string) string {
	return fmt.Sprintf("%s:%s", userID, taskID)
}

func DailyDedupeKey(userID, taskID string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", userID, taskID, day.Format("2006-01-02"))
}

// Names the point engine looks up for event-driven awards.
const (
	TaskNameApplyForJob = "Apply for a Job"
	TaskNameReferPeer   = "Refer a Peer"
)

// DefaultTasks is the catalog seeded on startup (idempotent, keyed by name).
var DefaultTasks = []Task{
	{
		Name:        "Daily Sign-In",
		Description: "Check in once per day",
		Points:      10,
		Policy:      TaskPolicyDaily,
		Active:      true,
	},
	{
		Name:        "Complete Profile",
		Description: "Fill out all profile fields",
		Points:      50,
		Policy:      TaskPolicyOnce,
		Active:      true,
	},
	{
		Name:        "Upload Resume",
		Description: "Add or update resume PDF",
		Points:      20,
		Policy:      TaskPolicyOnce,
		Active:      true,
	},
	{
		Name:        TaskNameApplyForJob,
		Description: "Apply to a job listing",
		Points:      5,
		Policy:      TaskPolicyRepeatable,
		Active:      true,
	},
	{
		Name:        TaskNameReferPeer,
		Description: "Unique referral link generates points on signup",
		Points:      200,
		Policy:      TaskPolicyRepeatable,
		Active:      true,
	},
}
