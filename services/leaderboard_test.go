package services_test

import (
	"testing"

	"jobify/models"
	"jobify/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setPoints(t *testing.T, db *gorm.DB, userID string, points int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("total_points", points).Error)
}

func TestRank_PointsMetric(t *testing.T) {
	db := newTestDB(t)
	lb := services.NewLeaderboardService(db)

	alex := createStudent(t, db, "Alex Johnson")
	sam := createStudent(t, db, "Samantha Lee")
	mike := createStudent(t, db, "Michael Chen")
	setPoints(t, db, alex.ID, 3850)
	setPoints(t, db, sam.ID, 3720)
	setPoints(t, db, mike.ID, 3540)

	entries, err := lb.Rank(services.MetricPoints, services.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, alex.ID, entries[0].UserID)
	assert.Equal(t, int64(3850), entries[0].Value)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, sam.ID, entries[1].UserID)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, mike.ID, entries[2].UserID)
	assert.Equal(t, 3, entries[2].Position)
}

func TestRank_TiesKeepRegistrationOrder(t *testing.T) {
	db := newTestDB(t)
	lb := services.NewLeaderboardService(db)

	first := createStudent(t, db, "First Registered")
	second := createStudent(t, db, "Second Registered")
	top := createStudent(t, db, "Top Scorer")
	setPoints(t, db, first.ID, 100)
	setPoints(t, db, second.ID, 100)
	setPoints(t, db, top.ID, 500)

	entries, err := lb.Rank(services.MetricPoints, services.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, top.ID, entries[0].UserID)
	assert.Equal(t, first.ID, entries[1].UserID)
	assert.Equal(t, second.ID, entries[2].UserID)
}

func TestRank_IsPureFunctionOfTotals(t *testing.T) {
	db := newTestDB(t)
	lb := services.NewLeaderboardService(db)

	for i, name := range []string{"A", "B", "C", "D"} {
		u := createStudent(t, db, name)
		setPoints(t, db, u.ID, int64((i*37)%91))
	}

	first, err := lb.Rank(services.MetricPoints, services.LeaderboardFilter{})
	require.NoError(t, err)
	second, err := lb.Rank(services.MetricPoints, services.LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRank_FiltersApplyBeforeRanking(t *testing.T) {
	db := newTestDB(t)
	lb := services.NewLeaderboardService(db)

	techTop := createStudent(t, db, "Tech Top")
	techTop.College = "Tech University"
	require.NoError(t, db.Save(techTop).Error)
	setPoints(t, db, techTop.ID, 200)

	otherTop := createStudent(t, db, "Design Top")
	otherTop.College = "Design Institute"
	require.NoError(t, db.Save(otherTop).Error)
	setPoints(t, db, otherTop.ID, 900)

	techSecond := createStudent(t, db, "Tech Second")
	techSecond.College = "Tech University"
	require.NoError(t, db.Save(techSecond).Error)
	setPoints(t, db, techSecond.ID, 100)

	entries, err := lb.Rank(services.MetricPoints, services.LeaderboardFilter{College: "Tech University"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Positions reflect the filtered subset, not the global board.
	assert.Equal(t, techTop.ID, entries[0].UserID)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, techSecond.ID, entries[1].UserID)
	assert.Equal(t, 2, entries[1].Position)
}

func TestRank_SkillAndNameFilters(t *testing.T) {
	db := newTestDB(t)
	lb := services.NewLeaderboardService(db)

	goDev := createStudent(t, db, "Go Dev")
	goDev.Skills = []string{"Go", "React"}
	require.NoError(t, db.Save(goDev).Error)

	pyDev := createStudent(t, db, "Py Dev")
	pyDev.Skills = []string{"Python"}
	require.NoError(t, db.Save(pyDev).Error)

	entries, err := lb.Rank(services.MetricPoints, services.LeaderboardFilter{Skill: "go"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, goDev.ID, entries[0].UserID)

	entries, err = lb.Rank(services.MetricPoints, services.LeaderboardFilter{Query: "py"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, pyDev.ID, entries[0].UserID)
}

func TestRank_ExcludesNonStudentsAndSuspended(t *testing.T) {
	db := newTestDB(t)
	lb := services.NewLeaderboardService(db)

	student := createStudent(t, db, "Student")
	recruiter := createRecruiter(t, db, "Recruiter")
	setPoints(t, db, recruiter.ID, 9999)

	suspended := createStudent(t, db, "Suspended")
	suspended.Status = models.UserStatusSuspended
	require.NoError(t, db.Save(suspended).Error)

	entries, err := lb.Rank(services.MetricPoints, services.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, student.ID, entries[0].UserID)
}

func TestRank_ReferralMetric(t *testing.T) {
	db := newTestDB(t)
	lb := services.NewLeaderboardService(db)

	few := createStudent(t, db, "Few Referrals")
	many := createStudent(t, db, "Many Referrals")

	require.NoError(t, db.Create(&models.Referral{
		ID: uuid.NewString(), ReferrerID: few.ID, Code: "JOB-AAAA1111",
		ReferredUsers: []string{uuid.NewString()},
	}).Error)
	require.NoError(t, db.Create(&models.Referral{
		ID: uuid.NewString(), ReferrerID: many.ID, Code: "JOB-BBBB2222",
		ReferredUsers: []string{uuid.NewString(), uuid.NewString(), uuid.NewString()},
	}).Error)

	entries, err := lb.Rank(services.MetricReferrals, services.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, many.ID, entries[0].UserID)
	assert.Equal(t, int64(3), entries[0].Value)
	assert.Equal(t, few.ID, entries[1].UserID)
	assert.Equal(t, int64(1), entries[1].Value)
}
