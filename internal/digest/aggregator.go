package digest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"glasscrm/internal/gateway"

	"gorm.io/gorm"
)

// Aggregator rolls operational events into one periodic owner-facing email
// and opens a tracked thread on it. It never interrupts an open thread: if
// the previous digest is still awaiting a reply, the tick is skipped.
type Aggregator struct {
	DB       *gorm.DB
	Email    gateway.EmailGateway
	State    *RunState
	To       string
	Hours    Hours
	Interval time.Duration

	mu sync.Mutex
}

func (a *Aggregator) Run(ctx context.Context) {
	interval := a.Interval
	if interval <= 0 {
		interval = 20 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.mu.TryLock() {
				continue
			}
			if err := a.Tick(ctx, time.Now()); err != nil {
				log.Printf("digest: %v", err)
			}
			a.mu.Unlock()
		}
	}
}

// Tick runs one digest cycle at the given instant.
func (a *Aggregator) Tick(ctx context.Context, now time.Time) error {
	if !a.Hours.Contains(now) {
		return nil
	}

	a.State.lock()
	defer a.State.unlock()

	if a.State.Awaiting {
		replied, err := threadReplied(ctx, a.Email, a.State.ThreadHandle)
		if err != nil {
			// best-effort recheck; leave the thread open and try next tick
			log.Printf("digest: recheck thread: %v", err)
			return nil
		}
		if !replied {
			return nil
		}
		a.State.Awaiting = false
		a.State.AuthFailures = 0
	}

	since := a.State.LastDigestAt
	if since.IsZero() {
		since = now.Add(-24 * time.Hour)
	}
	sum, err := (&Collector{DB: a.DB}).Collect(since)
	if err != nil {
		return err
	}
	if sum.Empty() {
		return nil
	}
	snap := sum.Hash()
	if snap == a.State.LastSnapshot {
		return nil
	}

	subject, body := render(sum, variantDigest)
	handle, err := a.Email.Send(ctx, a.To, subject, body)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	a.State.ThreadHandle = handle
	a.State.LastDigestAt = now
	a.State.LastSnapshot = snap
	a.State.Awaiting = true
	a.State.AuthFailures = 0

	rec := Record{
		ThreadHandle: string(handle),
		Snapshot:     snap,
		ItemIDs:      sum.IDs(),
		ItemCount:    len(sum.IDs()),
		SentAt:       now,
	}
	if err := a.DB.Create(&rec).Error; err != nil {
		// digest already went out; the audit row is best-effort
		log.Printf("digest: record audit row: %v", err)
	}
	return nil
}

// threadReplied reports whether any message after the original is inbound.
// Our own reminders are outbound and don't count.
func threadReplied(ctx context.Context, email gateway.EmailGateway, handle gateway.ThreadHandle) (bool, error) {
	msgs, err := email.GetThread(ctx, handle)
	if err != nil {
		return false, err
	}
	for i, m := range msgs {
		if i == 0 {
			continue
		}
		if !m.IsOutbound {
			return true, nil
		}
	}
	return false, nil
}
