package outreach

import (
	"context"
	"fmt"
	"log"
	"time"

	"glasscrm/internal/gateway"

	"gorm.io/gorm"
)

// Scheduler materializes the campaign for a new job: one ScheduledTask per
// step with an absolute fire time and frozen content.
type Scheduler struct {
	Campaign  Campaign
	Generator gateway.TextGenerator // optional copy rewrite; nil keeps templates
}

// Schedule creates the full task sequence on tx. Steps before the last get
// the job's execution-mode preference; the last step is always manual so a
// campaign can never recontact indefinitely without a human in the loop.
//
// Inserts run row-by-row: if one fails the already-inserted siblings are
// kept and the error is returned.
func (s *Scheduler) Schedule(ctx context.Context, tx *gorm.DB, info JobInfo, mode string, now time.Time) ([]ScheduledTask, error) {
	if mode != ModeAuto {
		mode = ModeManual
	}

	tasks := make([]ScheduledTask, 0, len(s.Campaign.Steps))
	for _, step := range s.Campaign.Steps {
		sms, subject, body := RenderStep(step, info)
		if s.Generator != nil && sms != "" {
			if out, err := s.Generator.Rewrite(ctx, sms); err == nil && out != "" {
				sms = out
			} else if err != nil {
				log.Printf("outreach: copy rewrite failed for %s step %d, keeping template: %v", info.JobNumber, step.Sequence, err)
			}
		}

		stepMode := mode
		if step.Manual {
			stepMode = ModeManual
		}

		t := ScheduledTask{
			JobID:          info.JobID,
			JobNumber:      info.JobNumber,
			SequenceNumber: step.Sequence,
			ExecutionMode:  stepMode,
			Status:         StatusPending,
			ScheduledAt:    now.Add(step.Delay),
			StepLabel:      step.Label,
			SMSBody:        sms,
			EmailSubject:   subject,
			EmailBody:      body,
			CustomerName:   info.Name,
			CustomerPhone:  info.Phone,
			CustomerEmail:  info.Email,
			Vehicle:        info.Vehicle,
		}
		if err := tx.Create(&t).Error; err != nil {
			return tasks, fmt.Errorf("schedule step %d for job %s: %w", step.Sequence, info.JobNumber, err)
		}
		tasks = append(tasks, t)
	}

	entry := FollowUpLogEntry{
		JobID:     info.JobID,
		JobNumber: info.JobNumber,
		Action:    ActionTaskCreated,
		Details:   fmt.Sprintf("scheduled %d follow-up steps (%s mode)", len(tasks), mode),
		Actor:     "system",
	}
	if err := tx.Create(&entry).Error; err != nil {
		return tasks, fmt.Errorf("schedule audit for job %s: %w", info.JobNumber, err)
	}
	return tasks, nil
}
