package services

import (
	"errors"
	"log"

	"jobify/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedBadgeTypes loads the static trigger table into the store (idempotent,
// keyed by code).
func SeedBadgeTypes(db *gorm.DB) error {
	for _, trigger := range models.BadgeTriggers {
		var existing models.BadgeType
		err := db.First(&existing, "code = ?", trigger.Code).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		trigger.ID = uuid.NewString()
		if err := db.Create(&trigger).Error; err != nil {
			return err
		}
	}
	return nil
}

// badgeStats are the values badge thresholds are checked against.
type badgeStats struct {
	TotalPoints       int64
	TotalCompletions  int64
	TotalReferrals    int64
	TotalApplications int64
}

// AutoAwardBadges checks all badge triggers for a user after a point change
func (s *BadgeService) AutoAwardBadges(userID string) error {
	stats, err := s.statsFor(userID)
	if err != nil {
		return err
	}

	var badgeTypes []models.BadgeType
	if err := s.DB.Find(&badgeTypes).Error; err != nil {
		return err
	}

	for _, badge := range badgeTypes {
		if !meetsThreshold(stats, badge.Threshold.Data()) {
			continue
		}

		var count int64
		s.DB.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_type_id = ?", userID, badge.ID).
			Count(&count)
		if count > 0 {
			continue
		}

		userBadge := models.UserBadge{
			ID:          uuid.NewString(),
			UserID:      userID,
			BadgeTypeID: badge.ID,
		}
		if err := s.DB.Create(&userBadge).Error; err != nil {
			// Duplicate means another award path got there first.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
		log.Printf("🎖️ Badge awarded: %s → %s", badge.Name, userID)
	}
	return nil
}

func (s *BadgeService) statsFor(userID string) (*badgeStats, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	stats := badgeStats{TotalPoints: user.TotalPoints}

	if err := s.DB.Model(&models.TaskCompletion{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalCompletions).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Application{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalApplications).Error; err != nil {
		return nil, err
	}

	var referral models.Referral
	if err := s.DB.First(&referral, "referrer_id = ?", userID).Error; err == nil {
		stats.TotalReferrals = int64(len(referral.ReferredUsers))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &stats, nil
}

func meetsThreshold(stats *badgeStats, req map[string]int64) bool {
	for key, required := range req {
		switch key {
		case "total_points":
			if stats.TotalPoints < required {
				return false
			}
		case "total_completions":
			if stats.TotalCompletions < required {
				return false
			}
		case "total_referrals":
			if stats.TotalReferrals < required {
				return false
			}
		case "total_applications":
			if stats.TotalApplications < required {
				return false
			}
		}
	}
	return true
}

// BadgesForUser returns the awarded badges joined with their static type.
type AwardedBadge struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	AwardedAt   string `json:"awarded_at"`
}

func (s *BadgeService) BadgesForUser(userID string) ([]AwardedBadge, error) {
	var rows []AwardedBadge
	err := s.DB.Model(&models.UserBadge{}).
		Select("user_badges.id, badge_types.code, badge_types.name, badge_types.description, badge_types.rarity, user_badges.awarded_at").
		Joins("INNER JOIN badge_types ON badge_types.id = user_badges.badge_type_id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.awarded_at DESC").
		Scan(&rows).Error
	return rows, err
}
