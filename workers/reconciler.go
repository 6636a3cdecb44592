package workers

import (
	"context"
	"log"
	"time"

	"jobify/models"

	"gorm.io/gorm"
)

// PointsReconciler keeps users.total_points honest against the completion
// ledger. The ledger is the source of truth; the counter is a denormalized
// convenience that operator edits or partial failures can leave stale.
type PointsReconciler struct {
	DB *gorm.DB
}

func NewPointsReconciler(db *gorm.DB) *PointsReconciler {
	return &PointsReconciler{DB: db}
}

type ledgerTotal struct {
	UserID string
	Total  int64
}

// ReconcileOnce recomputes each user's ledger sum and repairs any drift.
// Returns the number of repaired rows.
func (r *PointsReconciler) ReconcileOnce(ctx context.Context) (int, error) {
	var sums []ledgerTotal
	err := r.DB.WithContext(ctx).Model(&models.TaskCompletion{}).
		Select("user_id, SUM(points_earned) AS total").
		Group("user_id").
		Scan(&sums).Error
	if err != nil {
		return 0, err
	}

	totals := make(map[string]int64, len(sums))
	for _, s := range sums {
		totals[s.UserID] = s.Total
	}

	var users []models.User
	if err := r.DB.WithContext(ctx).Find(&users).Error; err != nil {
		return 0, err
	}

	repaired := 0
	for _, u := range users {
		want := totals[u.ID]
		if u.TotalPoints == want {
			continue
		}
		if err := r.DB.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", u.ID).
			UpdateColumn("total_points", want).Error; err != nil {
			log.Printf("❌ [Reconciler] Failed to repair total for user %s: %v", u.ID, err)
			continue
		}
		log.Printf("🔧 [Reconciler] Repaired total for user %s: %d → %d", u.ID, u.TotalPoints, want)
		repaired++
	}
	return repaired, nil
}

// PollLedger runs the reconciler on a fixed interval until ctx is done.
func PollLedger(ctx context.Context, reconciler *PointsReconciler, pollInterval time.Duration) {
	log.Println("Starting points reconciler...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Points reconciler stopped.")
			return
		case <-ticker.C:
			repaired, err := reconciler.ReconcileOnce(ctx)
			if err != nil {
				log.Printf("❌ [Reconciler] Pass failed: %v", err)
				continue
			}
			if repaired > 0 {
				log.Printf("✅ [Reconciler] Repaired %d user total(s).", repaired)
			}
		}
	}
}
