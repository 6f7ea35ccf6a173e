package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"glasscrm/internal/crm"
	"glasscrm/internal/outreach"

	"gorm.io/gorm"
)

// Summary is everything one digest or reminder reports on, plus the
// deterministic id list its snapshot hash is computed from.
type Summary struct {
	Tasks       []outreach.ScheduledTask // reached sent/notified since last digest
	NewLeads    []crm.Lead
	MissedCalls []crm.CallRecord
	RecentSends []outreach.FollowUpLogEntry

	Since time.Time
}

func (s *Summary) Empty() bool {
	return len(s.Tasks) == 0 && len(s.NewLeads) == 0 &&
		len(s.MissedCalls) == 0 && len(s.RecentSends) == 0
}

// IDs returns the ordered item id list: category order is fixed and ids are
// ascending within each category, so the same contents always hash the same.
func (s *Summary) IDs() []string {
	ids := make([]string, 0, len(s.Tasks)+len(s.NewLeads)+len(s.MissedCalls)+len(s.RecentSends))
	for _, t := range s.Tasks {
		ids = append(ids, fmt.Sprintf("task:%d", t.ID))
	}
	for _, l := range s.NewLeads {
		ids = append(ids, fmt.Sprintf("lead:%d", l.ID))
	}
	for _, c := range s.MissedCalls {
		ids = append(ids, fmt.Sprintf("call:%d", c.ID))
	}
	for _, e := range s.RecentSends {
		ids = append(ids, fmt.Sprintf("log:%d", e.ID))
	}
	return ids
}

func (s *Summary) Hash() string {
	h := sha256.Sum256([]byte(strings.Join(s.IDs(), "\n")))
	return hex.EncodeToString(h[:])
}

// Collector gathers operational events since a cutoff. Both loops share it
// so the reminder variant always mirrors what the digest reported.
type Collector struct {
	DB *gorm.DB
}

func (c *Collector) Collect(since time.Time) (*Summary, error) {
	sum := &Summary{Since: since}
	repo := &outreach.Repo{DB: c.DB}

	var err error
	if sum.Tasks, err = repo.CompletedSince(since); err != nil {
		return nil, fmt.Errorf("collect tasks: %w", err)
	}
	if sum.RecentSends, err = repo.LogSince(since, outreach.ActionSMSSent, outreach.ActionEmailSent); err != nil {
		return nil, fmt.Errorf("collect sends: %w", err)
	}
	if err = c.DB.Where("created_at >= ?", since).Order("id asc").Find(&sum.NewLeads).Error; err != nil {
		return nil, fmt.Errorf("collect leads: %w", err)
	}
	if err = c.DB.Where("missed = ? AND created_at >= ?", true, since).Order("id asc").Find(&sum.MissedCalls).Error; err != nil {
		return nil, fmt.Errorf("collect calls: %w", err)
	}
	return sum, nil
}
