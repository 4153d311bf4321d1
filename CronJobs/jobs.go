package CronJobs

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"AgroLens/Models"
)

// NotificationJanitor periodically deletes read alerts that are old enough
// that the farmer no longer needs them.
type NotificationJanitor struct {
	cronScheduler *cron.Cron
	db            *gorm.DB
	maxAge        time.Duration
	jobID         cron.EntryID
}

// NewNotificationJanitor creates a janitor that keeps read notifications for
// the given retention period.
func NewNotificationJanitor(db *gorm.DB, maxAge time.Duration) *NotificationJanitor {
	return &NotificationJanitor{
		cronScheduler: cron.New(),
		db:            db,
		maxAge:        maxAge,
	}
}

// Start schedules the daily cleanup run.
func (j *NotificationJanitor) Start() error {
	var err error
	j.jobID, err = j.cronScheduler.AddFunc("0 2 * * *", func() {
		log.Println("Running scheduled notification cleanup")
		j.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	j.cronScheduler.Start()
	log.Println("Notification cleanup scheduler started - will run daily at 2:00 AM")
	return nil
}

// Stop terminates the scheduler.
func (j *NotificationJanitor) Stop() {
	j.cronScheduler.Stop()
}

func (j *NotificationJanitor) runCleanup() {
	cutoff := time.Now().Add(-j.maxAge)
	result := j.db.Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&Models.Notification{})
	if result.Error != nil {
		log.Printf("Notification cleanup failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Notification cleanup removed %d old alerts", result.RowsAffected)
	}
}
