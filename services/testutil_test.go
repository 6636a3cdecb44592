package services_test

import (
	"testing"
	"time"

	"jobify/models"
	"jobify/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.Job{},
		&models.Application{},
		&models.Referral{},
		&models.ReferralRedemption{},
		&models.BadgeType{},
		&models.UserBadge{},
	))
	return db
}

var userSeq int

func createStudent(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		ID:     uuid.NewString(),
		Email:  uuid.NewString() + "@example.com",
		Name:   name,
		Role:   models.RoleStudent,
		Status: models.UserStatusActive,
	}
	// Distinct creation times pin down registration order.
	user.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(userSeq) * time.Second)
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTask(t *testing.T, db *gorm.DB, name string, points int64, policy models.TaskPolicy) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:     uuid.NewString(),
		Name:   name,
		Points: points,
		Policy: policy,
		Active: true,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func createRecruiter(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := createStudent(t, db, name)
	user.Role = models.RoleRecruiter
	require.NoError(t, db.Save(user).Error)
	return user
}

func createJob(t *testing.T, db *gorm.DB, jobs *services.JobService, recruiterID, title string) *models.Job {
	t.Helper()
	job, err := jobs.CreateJob(services.CreateJobInput{
		Title:       title,
		Company:     "Acme Corp",
		RecruiterID: recruiterID,
	})
	require.NoError(t, err)
	return job
}

func totalPoints(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return user.TotalPoints
}

func ledgerCount(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.TaskCompletion{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}
