package outreach

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"glasscrm/internal/gateway"
)

// Worker is the execution loop: each tick it drains due pending tasks and
// drives every one to a terminal status so it can never be picked up again.
type Worker struct {
	Repo     *Repo
	SMS      gateway.SMSGateway
	Email    gateway.EmailGateway
	Interval time.Duration

	mu sync.Mutex // non-reentrant tick guard
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.mu.TryLock() {
				// previous tick still draining a slow gateway
				continue
			}
			if err := w.Tick(ctx, time.Now()); err != nil {
				log.Printf("outreach worker: %v", err)
			}
			w.mu.Unlock()
		}
	}
}

// Tick processes every due task sequentially. Individual task failures are
// absorbed into the task's terminal status; only the due query can fail the
// tick as a whole.
func (w *Worker) Tick(ctx context.Context, now time.Time) error {
	tasks, err := w.Repo.DuePending(now)
	if err != nil {
		return fmt.Errorf("fetch due tasks: %w", err)
	}
	for i := range tasks {
		w.process(ctx, &tasks[i])
	}
	return nil
}

func (w *Worker) process(ctx context.Context, t *ScheduledTask) {
	defer func() {
		if p := recover(); p != nil {
			// force terminal so a poisoned task never blocks the queue
			msg := fmt.Sprintf("panic: %v", p)
			_ = w.Repo.MarkFailed(t.ID, msg)
			log.Printf("outreach worker: task %d (%s step %d) panicked: %v", t.ID, t.JobNumber, t.SequenceNumber, p)
		}
	}()

	switch t.ExecutionMode {
	case ModeManual:
		w.notify(t)
	case ModeAuto:
		w.send(ctx, t)
	default:
		_ = w.Repo.MarkFailed(t.ID, "unknown execution mode "+t.ExecutionMode)
		log.Printf("outreach worker: task %d has unknown execution mode %q", t.ID, t.ExecutionMode)
	}
}

func (w *Worker) notify(t *ScheduledTask) {
	if err := w.Repo.MarkNotified(t.ID); err != nil {
		log.Printf("outreach worker: mark notified task %d: %v", t.ID, err)
		return
	}
	seq := t.SequenceNumber
	_ = w.Repo.AppendLog(&FollowUpLogEntry{
		JobID:          t.JobID,
		JobNumber:      t.JobNumber,
		SequenceNumber: &seq,
		Action:         ActionTaskNotified,
		Details:        fmt.Sprintf("%q ready for manual send to %s", t.StepLabel, t.CustomerName),
	})
}

func (w *Worker) send(ctx context.Context, t *ScheduledTask) {
	seq := t.SequenceNumber
	sent := 0

	if t.CustomerPhone != "" && t.SMSBody != "" {
		if err := w.SMS.Send(ctx, t.CustomerPhone, t.SMSBody); err != nil {
			log.Printf("outreach worker: sms for task %d (%s step %d): %v", t.ID, t.JobNumber, seq, err)
		} else {
			sent++
			_ = w.Repo.AppendLog(&FollowUpLogEntry{
				JobID:          t.JobID,
				JobNumber:      t.JobNumber,
				SequenceNumber: &seq,
				Action:         ActionSMSSent,
				Details:        fmt.Sprintf("%q sent to %s", t.StepLabel, t.CustomerPhone),
			})
		}
	}

	if t.CustomerEmail != "" && t.EmailSubject != "" && t.EmailBody != "" {
		if _, err := w.Email.Send(ctx, t.CustomerEmail, t.EmailSubject, t.EmailBody); err != nil {
			log.Printf("outreach worker: email for task %d (%s step %d): %v", t.ID, t.JobNumber, seq, err)
		} else {
			sent++
			_ = w.Repo.AppendLog(&FollowUpLogEntry{
				JobID:          t.JobID,
				JobNumber:      t.JobNumber,
				SequenceNumber: &seq,
				Action:         ActionEmailSent,
				Details:        fmt.Sprintf("%q sent to %s", t.StepLabel, t.CustomerEmail),
			})
		}
	}

	if sent > 0 {
		if err := w.Repo.MarkSent(t.ID); err != nil {
			log.Printf("outreach worker: mark sent task %d: %v", t.ID, err)
		}
		return
	}
	if err := w.Repo.MarkFailed(t.ID, "no channel delivered"); err != nil {
		log.Printf("outreach worker: mark failed task %d: %v", t.ID, err)
	}
}
