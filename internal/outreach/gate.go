package outreach

import (
	"fmt"

	"gorm.io/gorm"
)

// ArchivePending voids every still-pending task for a job. Called
// synchronously from the job stage-transition path when a customer commits,
// so the worker can't fire a step moments after booking. Idempotent: a
// second call finds nothing pending and archives zero.
func ArchivePending(tx *gorm.DB, jobID uint64, jobNumber string) (int64, error) {
	res := tx.Model(&ScheduledTask{}).
		Where("job_id = ? AND status = ?", jobID, StatusPending).
		Update("status", StatusArchived)
	if res.Error != nil {
		return 0, fmt.Errorf("archive pending for job %s: %w", jobNumber, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}

	entry := FollowUpLogEntry{
		JobID:     jobID,
		JobNumber: jobNumber,
		Action:    ActionTaskArchived,
		Details:   fmt.Sprintf("archived %d pending follow-up steps after booking", res.RowsAffected),
		Actor:     "system",
	}
	if err := tx.Create(&entry).Error; err != nil {
		return res.RowsAffected, fmt.Errorf("archive audit for job %s: %w", jobNumber, err)
	}
	return res.RowsAffected, nil
}
