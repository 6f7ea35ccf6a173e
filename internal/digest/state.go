package digest

import (
	"sync"
	"time"

	"glasscrm/internal/gateway"

	"github.com/lib/pq"
)

// RunState is the single in-process record of the open digest conversation.
// It is owned by whoever constructs the loops and shared by reference
// between the aggregator and the reminder loop. A process restart loses it:
// the next eligible tick may then re-send an already-open digest, which is
// an accepted bounded duplication.
type RunState struct {
	mu sync.Mutex

	ThreadHandle gateway.ThreadHandle
	LastDigestAt time.Time
	LastSnapshot string
	Awaiting     bool
	AuthFailures int
}

func (s *RunState) lock()   { s.mu.Lock() }
func (s *RunState) unlock() { s.mu.Unlock() }

// Snapshot returns a copy of the current state for inspection.
func (s *RunState) Snapshot() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RunState{
		ThreadHandle: s.ThreadHandle,
		LastDigestAt: s.LastDigestAt,
		LastSnapshot: s.LastSnapshot,
		Awaiting:     s.Awaiting,
		AuthFailures: s.AuthFailures,
	}
}

// Record is the durable audit row for every digest that went out. It is
// never read back into RunState.
type Record struct {
	ID           uint64         `gorm:"primaryKey"`
	ThreadHandle string         `gorm:"not null"`
	Snapshot     string         `gorm:"not null"`
	ItemIDs      pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	ItemCount    int            `gorm:"not null;default:0"`
	SentAt       time.Time      `gorm:"index;not null"`
}

func (Record) TableName() string { return "digest_records" }
