package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"jobify/handlers"
	"jobify/models"
	"jobify/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
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
	require.NoError(t, services.SeedTaskCatalog(db))
	require.NoError(t, services.SeedBadgeTypes(db))

	app := fiber.New()

	userService := services.NewUserService(db)
	pointsService := services.NewPointsService(db)
	badgeService := services.NewBadgeService(db)
	jobService := services.NewJobService(db, pointsService)
	leaderboardService := services.NewLeaderboardService(db)
	referralService := services.NewReferralService(db, pointsService)

	handlers.SetupUserRoutes(app, userService, pointsService, badgeService)
	handlers.SetupTaskRoutes(app, pointsService)
	handlers.SetupJobRoutes(app, jobService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupReferralRoutes(app, referralService)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:     uuid.NewString(),
		Email:  uuid.NewString() + "@example.com",
		Name:   "Test " + string(role),
		Role:   role,
		Status: models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seededTask(t *testing.T, db *gorm.DB, name string) *models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, db.First(&task, "name = ?", name).Error)
	return &task
}

func TestCompleteTaskEndpoint(t *testing.T) {
	app, db := newTestApp(t)

	student := seedUser(t, db, models.RoleStudent)
	daily := seededTask(t, db, "Daily Sign-In")

	resp, body := doJSON(t, app, http.MethodPost, "/tasks/"+daily.ID+"/complete",
		map[string]string{"userId": student.ID}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Task completed successfully", body["message"])
	assert.EqualValues(t, 10, body["pointsEarned"])

	// Same day: policy violation is a 400, not a fault
	resp, body = doJSON(t, app, http.MethodPost, "/tasks/"+daily.ID+"/complete",
		map[string]string{"userId": student.ID}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "already completed this task today")

	resp, _ = doJSON(t, app, http.MethodPost, "/tasks/"+uuid.NewString()+"/complete",
		map[string]string{"userId": student.ID}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/tasks/"+daily.ID+"/complete",
		map[string]string{"userId": uuid.NewString()}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserUpsertAndLookup(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/users", map[string]interface{}{
		"email":       "alex@example.com",
		"name":        "Alex Johnson",
		"external_id": "google-123",
	}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "student", body["role"])
	assert.NotContains(t, body, "dedupe_key")

	// Upsert, not duplicate
	resp, body = doJSON(t, app, http.MethodPost, "/users", map[string]interface{}{
		"email": "alex@example.com",
		"name":  "Alex J.",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alex J.", body["name"])

	resp, body = doJSON(t, app, http.MethodGet, "/users/google-123", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alex@example.com", body["email"])

	resp, _ = doJSON(t, app, http.MethodGet, "/users/google-999", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJobRoutesRoleGating(t *testing.T) {
	app, db := newTestApp(t)
	recruiter := seedUser(t, db, models.RoleRecruiter)

	posting := map[string]interface{}{
		"title":   "Backend Engineer",
		"company": "Acme Corp",
		"type":    "Full-time",
	}

	// No gateway context at all
	resp, _ := doJSON(t, app, http.MethodPost, "/jobs", posting, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Student context
	resp, _ = doJSON(t, app, http.MethodPost, "/jobs", posting, map[string]string{
		"X-User-ID":   uuid.NewString(),
		"X-User-Role": "student",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Recruiter context
	resp, body := doJSON(t, app, http.MethodPost, "/jobs", posting, map[string]string{
		"X-User-ID":   recruiter.ID,
		"X-User-Role": "recruiter",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, recruiter.ID, body["recruiter_id"])
	assert.NotEmpty(t, body["slug"])
}

func TestApplyEndpoint(t *testing.T) {
	app, db := newTestApp(t)

	recruiter := seedUser(t, db, models.RoleRecruiter)
	student := seedUser(t, db, models.RoleStudent)

	_, jobBody := doJSON(t, app, http.MethodPost, "/jobs", map[string]interface{}{
		"title":   "Platform Engineer",
		"company": "Acme Corp",
	}, map[string]string{
		"X-User-ID":   recruiter.ID,
		"X-User-Role": "recruiter",
	})
	jobID, _ := jobBody["id"].(string)
	require.NotEmpty(t, jobID)

	resp, body := doJSON(t, app, http.MethodPost, "/jobs/"+jobID+"/apply",
		map[string]string{"userId": student.ID}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	// Seeded "Apply for a Job" task pays out on a successful application
	assert.EqualValues(t, 5, body["points_earned"])

	resp, body = doJSON(t, app, http.MethodPost, "/jobs/"+jobID+"/apply",
		map[string]string{"userId": student.ID}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "already applied")

	var count int64
	require.NoError(t, db.Model(&models.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, student.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLeaderboardEndpoint(t *testing.T) {
	app, db := newTestApp(t)

	low := seedUser(t, db, models.RoleStudent)
	high := seedUser(t, db, models.RoleStudent)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", low.ID).UpdateColumn("total_points", 100).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", high.ID).UpdateColumn("total_points", 900).Error)

	resp, body := doJSON(t, app, http.MethodGet, "/leaderboard", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "points", body["metric"])

	entries, ok := body["entries"].([]interface{})
	require.True(t, ok)
	require.Len(t, entries, 2)
	top := entries[0].(map[string]interface{})
	assert.Equal(t, high.ID, top["user_id"])
	assert.EqualValues(t, 1, top["position"])

	resp, _ = doJSON(t, app, http.MethodGet, "/leaderboard?metric=bogus", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminTaskManagement(t *testing.T) {
	app, db := newTestApp(t)
	admin := seedUser(t, db, models.RoleAdmin)

	adminHeaders := map[string]string{
		"X-User-ID":   admin.ID,
		"X-User-Role": "admin",
	}

	resp, body := doJSON(t, app, http.MethodPost, "/tasks", map[string]interface{}{
		"name":   "Attend a Webinar",
		"points": 30,
		"type":   "repeatable",
	}, adminHeaders)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	taskID, _ := body["id"].(string)
	require.NotEmpty(t, taskID)

	// Non-admin blocked
	resp, _ = doJSON(t, app, http.MethodPost, "/tasks", map[string]interface{}{
		"name":   "Sneaky Task",
		"points": 1,
		"type":   "daily",
	}, map[string]string{"X-User-ID": uuid.NewString(), "X-User-Role": "student"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Deactivate, then completion attempts are rejected
	resp, _ = doJSON(t, app, http.MethodPut, "/tasks/"+taskID, map[string]interface{}{
		"is_active": false,
	}, adminHeaders)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	student := seedUser(t, db, models.RoleStudent)
	resp, body = doJSON(t, app, http.MethodPost, "/tasks/"+taskID+"/complete",
		map[string]string{"userId": student.ID}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "no longer active")
}

func TestTaskCatalogAdminView(t *testing.T) {
	app, db := newTestApp(t)
	admin := seedUser(t, db, models.RoleAdmin)

	retired := &models.Task{
		ID:     uuid.NewString(),
		Name:   "Retired Promo",
		Points: 1,
		Policy: models.TaskPolicyOnce,
		Active: false,
	}
	require.NoError(t, db.Create(retired).Error)

	// Full-table view is admin-only
	resp, _ := doJSON(t, app, http.MethodGet, "/tasks?all=1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/tasks?all=1", nil, map[string]string{
		"X-User-ID":   uuid.NewString(),
		"X-User-Role": "student",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, "/tasks?all=1", nil)
	require.NoError(t, err)
	req.Header.Set("X-User-ID", admin.ID)
	req.Header.Set("X-User-Role", "admin")
	adminResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, adminResp.StatusCode)
	var full []map[string]interface{}
	require.NoError(t, json.NewDecoder(adminResp.Body).Decode(&full))
	names := make([]string, len(full))
	for i, task := range full {
		names[i], _ = task["name"].(string)
	}
	assert.Contains(t, names, "Retired Promo")

	// The public catalog never shows deactivated tasks
	publicReq, err := http.NewRequest(http.MethodGet, "/tasks", nil)
	require.NoError(t, err)
	publicResp, err := app.Test(publicReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, publicResp.StatusCode)
	var active []map[string]interface{}
	require.NoError(t, json.NewDecoder(publicResp.Body).Decode(&active))
	for _, task := range active {
		assert.NotEqual(t, "Retired Promo", task["name"])
	}
}

func TestReferralEndpoints(t *testing.T) {
	app, db := newTestApp(t)

	referrer := seedUser(t, db, models.RoleStudent)
	referred := seedUser(t, db, models.RoleStudent)

	resp, body := doJSON(t, app, http.MethodPost, "/referrals",
		map[string]string{"userId": referrer.ID}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	code, _ := body["referral_code"].(string)
	require.NotEmpty(t, code)

	resp, body = doJSON(t, app, http.MethodPost, "/referrals/redeem",
		map[string]string{"code": code, "userId": referred.ID}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	// Seeded "Refer a Peer" pays 200
	assert.EqualValues(t, 200, body["points_earned"])

	resp, _ = doJSON(t, app, http.MethodPost, "/referrals/redeem",
		map[string]string{"code": code, "userId": referred.ID}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/referrals/redeem",
		map[string]string{"code": "JOB-NOPE0000", "userId": referred.ID}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSuspendedUserCannotAct(t *testing.T) {
	app, db := newTestApp(t)
	admin := seedUser(t, db, models.RoleAdmin)
	student := seedUser(t, db, models.RoleStudent)
	daily := seededTask(t, db, "Daily Sign-In")

	resp, body := doJSON(t, app, http.MethodPatch, fmt.Sprintf("/users/%s/status", student.ID),
		map[string]string{"status": "suspended"},
		map[string]string{"X-User-ID": admin.ID, "X-User-Role": "admin"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "suspended", body["status"])

	resp, _ = doJSON(t, app, http.MethodPost, "/tasks/"+daily.ID+"/complete",
		map[string]string{"userId": student.ID}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
