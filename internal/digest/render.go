package digest

import (
	"fmt"
	"strings"

	"glasscrm/internal/outreach"
)

type variant int

const (
	variantDigest variant = iota
	variantReminder
)

// render formats one summary as subject + HTML body. The reminder variant
// reuses the same sections under a nagging header, so there is exactly one
// formatter for both loops.
func render(sum *Summary, v variant) (subject, body string) {
	counts := make([]string, 0, 4)
	if n := len(sum.NewLeads); n > 0 {
		counts = append(counts, fmt.Sprintf("%d new lead%s", n, plural(n)))
	}
	if n := len(sum.MissedCalls); n > 0 {
		counts = append(counts, fmt.Sprintf("%d missed call%s", n, plural(n)))
	}
	if n := len(sum.Tasks); n > 0 {
		counts = append(counts, fmt.Sprintf("%d follow-up%s", n, plural(n)))
	}

	headline := "no new activity"
	if len(counts) > 0 {
		headline = strings.Join(counts, ", ")
	}

	switch v {
	case variantReminder:
		subject = "Reminder: shop digest — " + headline
	default:
		subject = "Shop digest — " + headline
	}

	var b strings.Builder
	if v == variantReminder {
		b.WriteString("<p><b>Still waiting on a look at the last digest.</b> Current state below.</p>")
	}

	if len(sum.NewLeads) > 0 {
		b.WriteString("<h3>New leads</h3><ul>")
		for _, l := range sum.NewLeads {
			fmt.Fprintf(&b, "<li>%s — %s (%s)</li>", l.Name, l.Phone, l.Source)
		}
		b.WriteString("</ul>")
	}

	if len(sum.MissedCalls) > 0 {
		b.WriteString("<h3>Missed calls</h3><ul>")
		for _, c := range sum.MissedCalls {
			name := c.CallerName
			if name == "" {
				name = "unknown caller"
			}
			fmt.Fprintf(&b, "<li>%s — %s at %s</li>", name, c.Phone, c.CreatedAt.Format("15:04"))
		}
		b.WriteString("</ul>")
	}

	if len(sum.Tasks) > 0 {
		b.WriteString("<h3>Follow-ups</h3><ul>")
		for _, t := range sum.Tasks {
			switch t.Status {
			case outreach.StatusNotified:
				fmt.Fprintf(&b, "<li><b>Needs manual send:</b> %s step %d (%s) for %s</li>",
					t.JobNumber, t.SequenceNumber, t.StepLabel, t.CustomerName)
			default:
				fmt.Fprintf(&b, "<li>Sent: %s step %d (%s) to %s</li>",
					t.JobNumber, t.SequenceNumber, t.StepLabel, t.CustomerName)
			}
		}
		b.WriteString("</ul>")
	}

	if len(sum.RecentSends) > 0 {
		b.WriteString("<h3>Messages out</h3><ul>")
		for _, e := range sum.RecentSends {
			fmt.Fprintf(&b, "<li>%s %s — %s</li>", e.JobNumber, e.Action, e.Details)
		}
		b.WriteString("</ul>")
	}

	if b.Len() == 0 {
		b.WriteString("<p>No new activity since the last digest.</p>")
	}

	return subject, b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
