package digest

import (
	"context"
	"log"
	"sync"
	"time"

	"glasscrm/internal/gateway"

	"gorm.io/gorm"
)

// Reminder polls the open digest thread and nags until a human answers. It
// is a no-op while no thread is awaiting a reply. Repeated authentication
// failures against the email gateway trip a circuit breaker that closes the
// thread rather than retrying a dead credential forever; this is a
// best-effort side channel, so the condition is only logged.
type Reminder struct {
	DB            *gorm.DB
	Email         gateway.EmailGateway
	State         *RunState
	To            string
	Hours         Hours
	Interval      time.Duration
	FailureBudget int

	mu sync.Mutex
}

func (r *Reminder) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.mu.TryLock() {
				continue
			}
			if err := r.Tick(ctx, time.Now()); err != nil {
				log.Printf("digest reminder: %v", err)
			}
			r.mu.Unlock()
		}
	}
}

func (r *Reminder) Tick(ctx context.Context, now time.Time) error {
	r.State.lock()
	defer r.State.unlock()

	if !r.State.Awaiting {
		return nil
	}
	if !r.Hours.Contains(now) {
		return nil
	}

	replied, err := threadReplied(ctx, r.Email, r.State.ThreadHandle)
	if err != nil {
		r.noteFailure(err)
		return nil
	}
	if replied {
		log.Printf("digest reminder: reply detected on thread %s, standing down", r.State.ThreadHandle)
		r.State.Awaiting = false
		r.State.AuthFailures = 0
		return nil
	}

	sum, err := (&Collector{DB: r.DB}).Collect(r.State.LastDigestAt)
	if err != nil {
		return err
	}
	subject, body := render(sum, variantReminder)
	if err := r.Email.SendReply(ctx, r.State.ThreadHandle, r.To, subject, body); err != nil {
		r.noteFailure(err)
		return nil
	}
	r.State.AuthFailures = 0
	return nil
}

// noteFailure counts consecutive auth failures and force-closes the thread
// once the budget is spent. Non-auth errors are transient; just log them.
func (r *Reminder) noteFailure(err error) {
	if !gateway.IsAuthError(err) {
		log.Printf("digest reminder: %v", err)
		return
	}
	r.State.AuthFailures++
	budget := r.FailureBudget
	if budget <= 0 {
		budget = 3
	}
	if r.State.AuthFailures >= budget {
		log.Printf("digest reminder: %d consecutive auth failures, pausing until next digest: %v", r.State.AuthFailures, err)
		r.State.Awaiting = false
		r.State.AuthFailures = 0
		return
	}
	log.Printf("digest reminder: auth failure %d/%d: %v", r.State.AuthFailures, budget, err)
}
