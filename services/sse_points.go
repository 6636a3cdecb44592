package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"jobify/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CompletionsSince returns the user's ledger entries newer than cursor in
// completion order, plus the advanced cursor. An unchanged cursor with no
// entries means nothing new happened.
func (s *PointsService) CompletionsSince(userID string, cursor time.Time) ([]models.TaskCompletion, time.Time, error) {
	var entries []models.TaskCompletion
	err := s.DB.
		Where("user_id = ? AND completed_at > ?", userID, cursor).
		Order("completed_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, cursor, err
	}
	if len(entries) > 0 {
		cursor = entries[len(entries)-1].CompletedAt
	}
	return entries, cursor, nil
}

// StreamUserPointsSSE streams new ledger entries for the authenticated
// user as they appear — the live points feed behind the dashboard.
func (s *PointsService) StreamUserPointsSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var cursor time.Time

		var latest models.TaskCompletion
		if err := s.DB.
			Where("user_id = ?", userID).
			Order("completed_at DESC").
			First(&latest).Error; err == nil {
			cursor = latest.CompletedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for user %s: %v", userID, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				entries, next, err := s.CompletionsSince(userID, cursor)
				if err != nil {
					log.Printf("SSE query error for user %s: %v", userID, err)
					continue
				}
				if len(entries) == 0 {
					continue
				}
				cursor = next

				for _, entry := range entries {
					payload, _ := json.Marshal(entry)
					fmt.Fprintf(w, "event: points\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
