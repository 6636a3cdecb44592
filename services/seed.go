package services

import (
	"errors"

	"jobify/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedTaskCatalog inserts the default task catalog (idempotent, keyed by
// name). Existing tasks are never touched, so admin edits survive restarts.
func SeedTaskCatalog(db *gorm.DB) error {
	for _, task := range models.DefaultTasks {
		var existing models.Task
		err := db.First(&existing, "name = ?", task.Name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		task.ID = uuid.NewString()
		if err := db.Create(&task).Error; err != nil {
			return err
		}
	}
	return nil
}
