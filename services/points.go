package services

import (
	"errors"
	"log"
	"time"

	"jobify/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointsService is the points & eligibility engine: it decides whether a
// completion attempt is allowed, and on success appends a ledger entry and
// bumps the user's running total — one ledger write and one counter update
// per accepted call, nothing on rejection.
type PointsService struct {
	DB  *gorm.DB
	Now func() time.Time // injectable clock
}

func NewPointsService(db *gorm.DB) *PointsService {
	return &PointsService{DB: db, Now: time.Now}
}

// dayStart truncates t to the local calendar day, matching the original
// midnight-to-midnight window on the server clock.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CompleteTask validates an attempt against the ledger and, if eligible,
// records it atomically. The eligibility read and the ledger write share
// one transaction, and the dedupe-key unique index closes the remaining
// race: a concurrent loser's insert fails and is mapped back onto the
// same policy rejection.
func (s *PointsService) CompleteTask(userID, taskID string) (*models.TaskCompletion, error) {
	var completion *models.TaskCompletion
	now := s.Now()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if !task.Active {
			return ErrTaskInactive
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Status == models.UserStatusSuspended {
			return ErrUserSuspended
		}

		entry := models.TaskCompletion{
			ID:           uuid.NewString(),
			UserID:       userID,
			TaskID:       task.ID,
			CompletedAt:  now,
			PointsEarned: task.Points,
		}

		switch task.Policy {
		case models.TaskPolicyOnce:
			entry.DedupeKey = models.OnceDedupeKey(userID, task.ID)
		case models.TaskPolicyDaily:
			entry.DedupeKey = models.DailyDedupeKey(userID, task.ID, dayStart(now))
		default: // repeatable, no dedup
			entry.DedupeKey = entry.ID
		}

		if err := tx.Create(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if task.Policy == models.TaskPolicyDaily {
					return ErrAlreadyCompletedToday
				}
				return ErrAlreadyCompleted
			}
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("total_points", gorm.Expr("total_points + ?", task.Points)).Error; err != nil {
			return err
		}

		completion = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🏅 Points awarded: user=%s task=%q +%d", userID, completion.TaskID, completion.PointsEarned)

	// Auto-award badges
	badgeSvc := NewBadgeService(s.DB)
	_ = badgeSvc.AutoAwardBadges(userID) // fire-and-forget

	return completion, nil
}

// AwardForEvent completes the named catalog task on behalf of an action
// elsewhere in the system (job application, referral signup). A missing or
// deactivated catalog task degrades to no award rather than failing the
// triggering action.
func (s *PointsService) AwardForEvent(userID, taskName string) (int64, error) {
	var task models.Task
	if err := s.DB.First(&task, "name = ? AND active = ?", taskName, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️  No active catalog task %q — skipping award for user %s", taskName, userID)
			return 0, nil
		}
		return 0, err
	}

	entry, err := s.CompleteTask(userID, task.ID)
	if err != nil {
		// Policy rejections on event awards are expected (e.g. a once task
		// wired to a repeated action) and must not fail the caller.
		if errors.Is(err, ErrAlreadyCompleted) || errors.Is(err, ErrAlreadyCompletedToday) {
			return 0, nil
		}
		return 0, err
	}
	return entry.PointsEarned, nil
}

// UserPointsSummary is the dashboard shape: the running total plus the
// most recent ledger activity.
type UserPointsSummary struct {
	UserID           string               `json:"user_id"`
	TotalPoints      int64                `json:"total_points"`
	TotalCompletions int64                `json:"total_completions"`
	Recent           []CompletionWithTask `json:"recent"`
}

type CompletionWithTask struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"task_id"`
	TaskName     string    `json:"task_name"`
	PointsEarned int64     `json:"points_earned"`
	CompletedAt  time.Time `json:"completed_at"`
}

func (s *PointsService) GetUserSummary(userID string) (*UserPointsSummary, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var total int64
	if err := s.DB.Model(&models.TaskCompletion{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	recent, err := s.completionsWithTask(userID, 10, 0)
	if err != nil {
		return nil, err
	}

	return &UserPointsSummary{
		UserID:           userID,
		TotalPoints:      user.TotalPoints,
		TotalCompletions: total,
		Recent:           recent,
	}, nil
}

// GetHistory returns the paginated ledger for a user, newest first.
func (s *PointsService) GetHistory(userID string, page, size int) (map[string]interface{}, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var totalItems int64
	if err := s.DB.Model(&models.TaskCompletion{}).
		Where("user_id = ?", userID).
		Count(&totalItems).Error; err != nil {
		return nil, err
	}

	entries, err := s.completionsWithTask(userID, size, offset)
	if err != nil {
		return nil, err
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))

	return map[string]interface{}{
		"entries":     entries,
		"page":        page,
		"size":        size,
		"total_items": totalItems,
		"total_pages": totalPages,
	}, nil
}

func (s *PointsService) completionsWithTask(userID string, limit, offset int) ([]CompletionWithTask, error) {
	var rows []CompletionWithTask
	err := s.DB.Model(&models.TaskCompletion{}).
		Select("task_completions.id, task_completions.task_id, tasks.name AS task_name, task_completions.points_earned, task_completions.completed_at").
		Joins("INNER JOIN tasks ON tasks.id = task_completions.task_id").
		Where("task_completions.user_id = ?", userID).
		Order("task_completions.completed_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	return rows, err
}
