package services

import (
	"log"
	"time"

	"jobify/models"

	"github.com/go-co-op/gocron/v2"
)

// PublishDueJobs flips scheduled postings whose publish time has passed.
// Returns how many were published.
func (s *JobService) PublishDueJobs(now time.Time) (int, error) {
	var jobs []models.Job
	err := s.DB.Where("status = ? AND publish_at <= ?", models.JobStatusScheduled, now).
		Find(&jobs).Error
	if err != nil {
		return 0, err
	}

	published := 0
	for _, j := range jobs {
		j.Status = models.JobStatusPublished
		j.PostedAt = now
		j.PublishAt = nil
		if err := s.DB.Save(&j).Error; err != nil {
			log.Printf("[Scheduler] Failed to publish job %s: %v", j.ID, err)
			continue
		}
		log.Printf("✅ Auto-published job posting: %s at %s", j.Title, j.Company)
		published++
	}
	return published, nil
}

// StartPublishScheduler runs PublishDueJobs every minute for the life of
// the process.
func (s *JobService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if _, err := s.PublishDueJobs(time.Now()); err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
			}
		}),
	)
}
