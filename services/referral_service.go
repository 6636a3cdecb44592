package services

import (
	"errors"
	"log"
	"strings"

	"jobify/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralService issues shareable codes and credits referrers through
// the points engine when a new user redeems one.
type ReferralService struct {
	DB     *gorm.DB
	Points *PointsService
}

func NewReferralService(db *gorm.DB, points *PointsService) *ReferralService {
	return &ReferralService{DB: db, Points: points}
}

// EnsureCode returns the user's referral record, minting a code on first
// request (idempotent).
func (s *ReferralService) EnsureCode(userID string) (*models.Referral, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var referral models.Referral
	err := s.DB.First(&referral, "referrer_id = ?", userID).Error
	if err == nil {
		return &referral, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	referral = models.Referral{
		ID:         uuid.NewString(),
		ReferrerID: userID,
		Code:       newReferralCode(),
	}
	if err := s.DB.Create(&referral).Error; err != nil {
		// Lost a race with a concurrent first request; re-read the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.DB.First(&referral, "referrer_id = ?", userID).Error; err != nil {
				return nil, err
			}
			return &referral, nil
		}
		return nil, err
	}
	return &referral, nil
}

func (s *ReferralService) GetByUser(userID string) (*models.Referral, error) {
	var referral models.Referral
	if err := s.DB.First(&referral, "referrer_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &referral, nil
}

// Redeem attaches the referred user to the code's record and credits the
// referrer with the repeatable "Refer a Peer" task. A user can be referred
// once; self-referrals are rejected.
func (s *ReferralService) Redeem(code, referredUserID string) (*models.Referral, int64, error) {
	var referral models.Referral

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&referral, "code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferralNotFound
			}
			return err
		}

		var referred models.User
		if err := tx.First(&referred, "id = ?", referredUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if referral.ReferrerID == referredUserID {
			return ErrSelfReferral
		}
		if referral.Referred(referredUserID) {
			return ErrAlreadyReferred
		}

		// A user may redeem one code, ever — regardless of whose. The
		// unique index on referred_user_id makes the second insert fail,
		// which also rolls back the list update below.
		redemption := models.ReferralRedemption{
			ID:             uuid.NewString(),
			ReferralID:     referral.ID,
			ReferrerID:     referral.ReferrerID,
			ReferredUserID: referredUserID,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReferred
			}
			return err
		}

		referral.ReferredUsers = append(referral.ReferredUsers, referredUserID)
		return tx.Save(&referral).Error
	})
	if err != nil {
		return nil, 0, err
	}

	points, err := s.Points.AwardForEvent(referral.ReferrerID, models.TaskNameReferPeer)
	if err != nil {
		log.Printf("⚠️  Failed to award referral points for user %s: %v", referral.ReferrerID, err)
		points = 0
	}

	return &referral, points, nil
}

// newReferralCode mints a short, shareable, globally unique code.
func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "JOB-" + strings.ToUpper(raw[:8])
}
