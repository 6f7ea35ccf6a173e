package db

import (
	"fmt"

	"glasscrm/internal/auth"
	"glasscrm/internal/crm"
	"glasscrm/internal/digest"
	"glasscrm/internal/outreach"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&crm.Job{},
		&crm.Lead{},
		&crm.CallRecord{},
		&outreach.ScheduledTask{},
		&outreach.FollowUpLogEntry{},
		&digest.Record{},
	); err != nil {
		return err
	}

	// One step per job per sequence slot
	if err := gdb.Exec(`create unique index if not exists uq_tasks_job_sequence on scheduled_tasks(job_id, sequence_number);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_tasks_due on scheduled_tasks(status, scheduled_at);`,
		`create index if not exists idx_tasks_job_status on scheduled_tasks(job_id, status);`,
		`create index if not exists idx_logs_action_created on follow_up_log_entries(action, created_at);`,
		`create index if not exists idx_calls_missed_created on call_records(missed, created_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
