package models

import (
	"time"

	"gorm.io/datatypes"
)

// BadgeType: static config (seeded at startup)
type BadgeType struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g., "FIRST_APPLICATION"
	Name        string `gorm:"not null"`
	Description string
	Rarity      string                               `gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
	Threshold   datatypes.JSONType[map[string]int64] // e.g., {"total_points": 1000}
	CreatedAt   time.Time                            `gorm:"autoCreateTime"`
}

// UserBadge: awarded instance, at most one per (user, badge)
type UserBadge struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	UserID      string    `gorm:"not null;uniqueIndex:idx_user_badges_user_badge"`
	BadgeTypeID string    `gorm:"not null;uniqueIndex:idx_user_badges_user_badge"`
	AwardedAt   time.Time `gorm:"autoCreateTime"`
}

// BadgeTriggers are evaluated after every point change. Threshold keys map
// onto the stats BadgeService computes from the ledger and registries.
var BadgeTriggers = []BadgeType{
	{
		Code:        "FIRST_STEPS",
		Name:        "First Steps",
		Description: "Completed your first task",
		Rarity:      "common",
		Threshold:   datatypes.NewJSONType(map[string]int64{"total_completions": 1}),
	},
	{
		Code:        "FIRST_APPLICATION",
		Name:        "Go-Getter",
		Description: "Applied to your first job",
		Rarity:      "common",
		Threshold:   datatypes.NewJSONType(map[string]int64{"total_applications": 1}),
	},
	{
		Code:        "POINTS_1000",
		Name:        "Point Collector",
		Description: "Earned 1,000 points",
		Rarity:      "rare",
		Threshold:   datatypes.NewJSONType(map[string]int64{"total_points": 1000}),
	},
	{
		Code:        "REFER_5",
		Name:        "Recruiter Magnet",
		Description: "Referred 5 peers who signed up",
		Rarity:      "epic",
		Threshold:   datatypes.NewJSONType(map[string]int64{"total_referrals": 5}),
	},
	{
		Code:        "STREAK_30",
		Name:        "Regular",
		Description: "Completed 30 tasks",
		Rarity:      "rare",
		Threshold:   datatypes.NewJSONType(map[string]int64{"total_completions": 30}),
	},
}
