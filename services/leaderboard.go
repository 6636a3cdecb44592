package services

import (
	"sort"
	"strings"

	"jobify/models"

	"gorm.io/gorm"
)

// Leaderboard metrics
const (
	MetricPoints    = "points"
	MetricReferrals = "referrals"
)

// LeaderboardService derives rankings on demand from current totals; there
// is no cached or incrementally maintained state.
type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// LeaderboardFilter narrows the candidate set before ranking, so positions
// reflect the filtered subset.
type LeaderboardFilter struct {
	Query   string // case-insensitive substring on name
	College string
	Skill   string
}

type LeaderboardEntry struct {
	UserID   string   `json:"user_id"`
	Name     string   `json:"name"`
	Avatar   string   `json:"avatar,omitempty"`
	College  string   `json:"college,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	Value    int64    `json:"value"`
	Position int      `json:"position"`
}

// Rank returns active students ordered descending by the metric. Rows are
// fetched in registration order and sorted stably, so equal scores keep
// that order; no secondary ranking key is assumed.
func (s *LeaderboardService) Rank(metric string, filter LeaderboardFilter) ([]LeaderboardEntry, error) {
	q := s.DB.Model(&models.User{}).
		Where("role = ? AND status = ?", models.RoleStudent, models.UserStatusActive).
		Order("created_at ASC, id ASC")

	if filter.Query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(filter.Query))+"%")
	}
	if filter.College != "" {
		q = q.Where("college = ?", filter.College)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	if filter.Skill != "" {
		filtered := users[:0]
		for _, u := range users {
			if hasSkill(u.Skills, filter.Skill) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	values := make(map[string]int64, len(users))
	switch metric {
	case MetricReferrals:
		counts, err := s.referralCounts()
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			values[u.ID] = counts[u.ID]
		}
	default: // points
		for _, u := range users {
			values[u.ID] = u.TotalPoints
		}
	}

	sort.SliceStable(users, func(i, j int) bool {
		return values[users[i].ID] > values[users[j].ID]
	})

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			UserID:   u.ID,
			Name:     u.Name,
			Avatar:   u.Avatar,
			College:  u.College,
			Skills:   u.Skills,
			Value:    values[u.ID],
			Position: i + 1,
		}
	}
	return entries, nil
}

func (s *LeaderboardService) referralCounts() (map[string]int64, error) {
	var referrals []models.Referral
	if err := s.DB.Find(&referrals).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(referrals))
	for _, r := range referrals {
		counts[r.ReferrerID] = int64(len(r.ReferredUsers))
	}
	return counts, nil
}

func hasSkill(skills []string, want string) bool {
	for _, s := range skills {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
