package outreach

import "time"

const (
	StatusPending  = "pending"
	StatusSent     = "sent"
	StatusNotified = "notified"
	StatusFailed   = "failed"
	StatusArchived = "archived"
)

const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

const (
	ActionTaskCreated  = "task-created"
	ActionTaskArchived = "task-archived"
	ActionSMSSent      = "sms-sent"
	ActionEmailSent    = "email-sent"
	ActionTaskNotified = "task-notified"
)

// ScheduledTask is one planned follow-up step for a job. Customer display
// fields and message bodies are frozen at creation time so execution never
// re-joins the job and later job edits do not rewrite pending wording.
type ScheduledTask struct {
	ID             uint64 `gorm:"primaryKey"`
	JobID          uint64 `gorm:"index;not null"`
	JobNumber      string `gorm:"not null"`
	SequenceNumber int    `gorm:"not null"`

	ExecutionMode string `gorm:"not null"`
	Status        string `gorm:"index;not null;default:'pending'"`

	ScheduledAt time.Time `gorm:"index;not null"`

	StepLabel    string `gorm:"not null"`
	SMSBody      string `gorm:"type:text;not null;default:''"`
	EmailSubject string `gorm:"not null;default:''"`
	EmailBody    string `gorm:"type:text;not null;default:''"`

	CustomerName  string `gorm:"not null;default:''"`
	CustomerPhone string `gorm:"not null;default:''"`
	CustomerEmail string `gorm:"not null;default:''"`
	Vehicle       string `gorm:"not null;default:''"`

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// FollowUpLogEntry is the append-only audit trail of everything the
// scheduler, worker and cancellation gate do. Never mutated or deleted.
type FollowUpLogEntry struct {
	ID             uint64 `gorm:"primaryKey"`
	JobID          uint64 `gorm:"index;not null"`
	JobNumber      string `gorm:"not null;default:''"`
	SequenceNumber *int
	Action         string    `gorm:"index;not null"`
	Details        string    `gorm:"type:text;not null;default:''"`
	Actor          string    `gorm:"not null;default:'system'"`
	CreatedAt      time.Time `gorm:"index;autoCreateTime;not null"`
}
