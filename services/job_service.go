package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"jobify/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// JobService owns the posting registry and the duplicate-guarded apply
// action. Accepted applications feed the points engine.
type JobService struct {
	DB     *gorm.DB
	Points *PointsService
}

func NewJobService(db *gorm.DB, points *PointsService) *JobService {
	return &JobService{DB: db, Points: points}
}

type CreateJobInput struct {
	Title       string            `json:"title" validate:"required"`
	Company     string            `json:"company" validate:"required"`
	Location    string            `json:"location"`
	Type        models.JobType    `json:"type" validate:"omitempty,oneof=Full-time Part-time Contract Internship"`
	Description string            `json:"description"`
	Skills      []string          `json:"skills"`
	Salary      string            `json:"salary"`
	RecruiterID string            `json:"recruiter_id" validate:"required,uuid"`
	PublishAt   *time.Time        `json:"publish_at"`
}

// CreateJob publishes immediately unless a future PublishAt is given, in
// which case the posting stays scheduled until the publish scheduler
// flips it.
func (s *JobService) CreateJob(in CreateJobInput) (*models.Job, error) {
	var recruiter models.User
	if err := s.DB.First(&recruiter, "id = ?", in.RecruiterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	id := uuid.NewString()
	job := models.Job{
		ID:          id,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		Type:        in.Type,
		Description: in.Description,
		Skills:      in.Skills,
		Salary:      in.Salary,
		RecruiterID: in.RecruiterID,
		Slug:        fmt.Sprintf("%s-%s", slug.Make(in.Title+" "+in.Company), id[:8]),
		Status:      models.JobStatusPublished,
		PostedAt:    time.Now(),
	}

	if in.PublishAt != nil && in.PublishAt.After(time.Now()) {
		job.Status = models.JobStatusScheduled
		job.PublishAt = in.PublishAt
	}

	if err := s.DB.Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

type JobFilter struct {
	Query    string // substring on title/company
	Type     string
	Location string
}

// ListJobs returns published postings, newest first.
func (s *JobService) ListJobs(filter JobFilter) ([]models.Job, error) {
	q := s.DB.Model(&models.Job{}).
		Where("status = ?", models.JobStatusPublished).
		Order("posted_at DESC")

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("title LIKE ? OR company LIKE ?", like, like)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Location != "" {
		q = q.Where("location = ?", filter.Location)
	}

	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob looks up a posting by id or slug.
func (s *JobService) GetJob(idOrSlug string) (*models.Job, error) {
	var job models.Job
	if err := s.DB.First(&job, "id = ? OR slug = ?", idOrSlug, idOrSlug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Apply creates a pending application unless one already exists for the
// (job, user) pair. The composite unique index backs up the pre-check, so
// two racing attempts still end with exactly one row. On success the
// repeatable "Apply for a Job" task is credited through the points engine.
func (s *JobService) Apply(jobID, userID string) (*models.Application, int64, error) {
	var application models.Application

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return err
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

		application = models.Application{
			ID:        uuid.NewString(),
			JobID:     job.ID,
			UserID:    userID,
			Status:    models.ApplicationStatusPending,
			AppliedAt: time.Now(),
		}
		if err := tx.Create(&application).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateApplication
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	points, err := s.Points.AwardForEvent(userID, models.TaskNameApplyForJob)
	if err != nil {
		// The application stands; the award is best-effort.
		log.Printf("⚠️  Failed to award application points for user %s: %v", userID, err)
		points = 0
	}

	return &application, points, nil
}

// ApplicationWithApplicant is the recruiter review shape.
type ApplicationWithApplicant struct {
	ID          string                   `json:"id"`
	JobID       string                   `json:"job_id"`
	Status      models.ApplicationStatus `json:"status"`
	AppliedAt   time.Time                `json:"applied_at"`
	UserID      string                   `json:"user_id"`
	Name        string                   `json:"name"`
	Email       string                   `json:"email"`
	Avatar      string                   `json:"avatar,omitempty"`
	TotalPoints int64                    `json:"total_points"`
}

// ApplicationsForJob lists a posting's applications with applicant
// summaries, newest first.
func (s *JobService) ApplicationsForJob(jobID string) ([]ApplicationWithApplicant, error) {
	if _, err := s.GetJob(jobID); err != nil {
		return nil, err
	}

	var rows []ApplicationWithApplicant
	err := s.DB.Model(&models.Application{}).
		Select("applications.id, applications.job_id, applications.status, applications.applied_at, users.id AS user_id, users.name, users.email, users.avatar, users.total_points").
		Joins("INNER JOIN users ON users.id = applications.user_id").
		Where("applications.job_id = ?", jobID).
		Order("applications.applied_at DESC").
		Scan(&rows).Error
	return rows, err
}

// UpdateApplicationStatus moves an application through the review
// lifecycle (pending → reviewed/accepted/rejected).
func (s *JobService) UpdateApplicationStatus(id string, status models.ApplicationStatus) (*models.Application, error) {
	var application models.Application
	if err := s.DB.First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	application.Status = status
	if err := s.DB.Save(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// DeleteJob removes a posting and its applications.
func (s *JobService) DeleteJob(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Job{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJobNotFound
		}
		return nil
	})
}
