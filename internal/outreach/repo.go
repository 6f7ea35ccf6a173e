package outreach

import (
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	DB *gorm.DB
}

// DuePending returns every pending task whose fire time has passed, oldest
// first. No claim lock: the engine runs as a single scheduler instance.
func (r *Repo) DuePending(now time.Time) ([]ScheduledTask, error) {
	var tasks []ScheduledTask
	err := r.DB.
		Where("status = ? AND scheduled_at <= ?", StatusPending, now).
		Order("scheduled_at asc, id asc").
		Find(&tasks).Error
	return tasks, err
}

func (r *Repo) ByJob(jobID uint64) ([]ScheduledTask, error) {
	var tasks []ScheduledTask
	err := r.DB.
		Where("job_id = ?", jobID).
		Order("sequence_number asc").
		Find(&tasks).Error
	return tasks, err
}

// CompletedSince returns tasks that reached sent or notified at or after t.
func (r *Repo) CompletedSince(t time.Time) ([]ScheduledTask, error) {
	var tasks []ScheduledTask
	err := r.DB.
		Where("status IN ? AND updated_at >= ?", []string{StatusSent, StatusNotified}, t).
		Order("id asc").
		Find(&tasks).Error
	return tasks, err
}

// The Mark* writes are guarded on status='pending' so a terminal status can
// never regress, even if a task is processed twice by mistake.

func (r *Repo) MarkSent(id uint64) error {
	return r.markTerminal(id, StatusSent, nil)
}

func (r *Repo) MarkNotified(id uint64) error {
	return r.markTerminal(id, StatusNotified, nil)
}

func (r *Repo) MarkFailed(id uint64, errMsg string) error {
	return r.markTerminal(id, StatusFailed, &errMsg)
}

func (r *Repo) markTerminal(id uint64, status string, errMsg *string) error {
	updates := map[string]any{"status": status, "updated_at": time.Now()}
	if errMsg != nil {
		updates["last_error"] = *errMsg
	}
	return r.DB.Model(&ScheduledTask{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(updates).Error
}

func (r *Repo) AppendLog(entry *FollowUpLogEntry) error {
	if entry.Actor == "" {
		entry.Actor = "system"
	}
	return r.DB.Create(entry).Error
}

// LogSince returns audit entries created at or after t, optionally filtered
// by action.
func (r *Repo) LogSince(t time.Time, actions ...string) ([]FollowUpLogEntry, error) {
	q := r.DB.Where("created_at >= ?", t)
	if len(actions) > 0 {
		q = q.Where("action IN ?", actions)
	}
	var entries []FollowUpLogEntry
	err := q.Order("id asc").Find(&entries).Error
	return entries, err
}
