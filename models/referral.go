package models

import (
	"time"

	"gorm.io/datatypes"
)

// Referral holds a user's shareable code and the accounts that signed up
// through it. One row per referrer; the code is globally unique.
type Referral struct {
	ID            string                      `gorm:"primaryKey;type:uuid" json:"id"`
	ReferrerID    string                      `gorm:"uniqueIndex;not null" json:"referrer_id"`
	Code          string                      `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferredUsers datatypes.JSONSlice[string] `json:"referred_users"`

	Timestamps
}

// Referred reports whether userID already redeemed this code.
func (r *Referral) Referred(userID string) bool {
	for _, id := range r.ReferredUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// ReferralRedemption records one redeemed code. The unique index on
// ReferredUserID is the store-level guarantee that a user is referred at
// most once, ever, whichever code they present; concurrent redemptions
// lose on insert, not on a read-then-write check.
type ReferralRedemption struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ReferralID     string    `gorm:"index;not null" json:"referral_id"`
	ReferrerID     string    `gorm:"index;not null" json:"referrer_id"`
	ReferredUserID string    `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	RedeemedAt     time.Time `gorm:"autoCreateTime" json:"redeemed_at"`
}
