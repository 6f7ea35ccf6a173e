package digest

import "time"

// Hours is the local-time window during which the shop wants to hear from
// its own tooling. Sends outside it are suppressed, not queued.
type Hours struct {
	Loc   *time.Location
	Start int // inclusive hour, 0..23
	End   int // exclusive hour, 1..24
}

func (h Hours) Contains(t time.Time) bool {
	loc := h.Loc
	if loc == nil {
		loc = time.Local
	}
	hour := t.In(loc).Hour()
	return hour >= h.Start && hour < h.End
}
