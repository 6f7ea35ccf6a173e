package outreach

import (
	"fmt"
	"strings"
	"time"
)

// JobInfo carries the customer display fields a campaign renders from.
// Captured once at schedule time.
type JobInfo struct {
	JobID      uint64
	JobNumber  string
	Name       string
	FirstName  string
	Phone      string
	Email      string
	Vehicle    string
	GlassLabel string
	City       string
	QuoteCents int64
}

// Step is one row of the campaign table: how long after job creation it
// fires, what it is called, and the message templates it renders.
type Step struct {
	Sequence    int
	Delay       time.Duration
	Label       string
	SMSTemplate string
	SubjectTmpl string
	EmailTmpl   string
	Manual      bool
}

type Campaign struct {
	Steps []Step
}

type stepTemplate struct {
	label   string
	sms     string
	subject string
	email   string
}

// Template placeholders: {first_name} {name} {vehicle} {glass} {price}
// {city} {job_number}. The final entry is always the human hand-off step.
var stepTemplates = []stepTemplate{
	{
		label:   "quote follow-up",
		sms:     "Hi {first_name}, thanks for reaching out about the {glass} on your {vehicle}. We can take care of it for {price}. Reply here or call us to grab a time.",
		subject: "Your {vehicle} glass quote — {price}",
		email:   "<p>Hi {first_name},</p><p>Thanks for contacting us about the {glass} on your {vehicle}. Your quote is <b>{price}</b>, parts and labor included.</p><p>Reply to this email or give us a call and we'll get you on the schedule.</p>",
	},
	{
		label:   "same-day availability",
		sms:     "Hi {first_name}, we still have openings today in {city} for your {vehicle}. Want us to hold a spot?",
		subject: "We can fit your {vehicle} in today",
		email:   "<p>Hi {first_name},</p><p>We still have same-day openings in {city} for your {vehicle} {glass}. Reply and we'll hold a spot for you.</p>",
	},
	{
		label:   "mobile service reminder",
		sms:     "{first_name}, quick note — we come to you. Mobile {glass} replacement at your home or work in {city}, same {price} quote.",
		subject: "We come to you in {city}",
		email:   "<p>Hi {first_name},</p><p>Just a reminder that we offer mobile service: we'll replace the {glass} on your {vehicle} at your home or workplace in {city}. Same quote: <b>{price}</b>.</p>",
	},
	{
		label:   "warranty note",
		sms:     "Hi {first_name}, every install on your {vehicle} comes with a lifetime leak warranty. Your {price} quote is still good — want a time?",
		subject: "Lifetime warranty on your {vehicle} install",
		email:   "<p>Hi {first_name},</p><p>Every {glass} install comes with a lifetime warranty against leaks and workmanship issues. Your quote of <b>{price}</b> still stands.</p>",
	},
	{
		label:   "insurance option",
		sms:     "{first_name}, did you know glass coverage often has no deductible? We handle the insurance paperwork for your {vehicle}. Happy to check for you.",
		subject: "Your insurance may cover this",
		email:   "<p>Hi {first_name},</p><p>Many policies cover {glass} replacement with little or no deductible, and we handle the paperwork. Want us to check what your policy covers for the {vehicle}?</p>",
	},
	{
		label:   "final automated touch",
		sms:     "Hi {first_name}, last note from us about the {vehicle} — your {price} quote is good all week. We'd love to help when you're ready.",
		subject: "Your quote is good all week",
		email:   "<p>Hi {first_name},</p><p>This is our last automated note about your {vehicle}. The <b>{price}</b> quote is good through the end of the week — just reply whenever you're ready.</p>",
	},
	{
		label:   "personal call",
		sms:     "Personal check-in call for {first_name} ({job_number}) — {vehicle}, quoted {price}.",
		subject: "Call {first_name} about job {job_number}",
		email:   "<p>Time for a personal call to {first_name} about the {vehicle} ({job_number}), quoted {price}.</p>",
	},
}

// NewCampaign pairs a delay table with the step templates. Delays must be
// strictly increasing. When the table is shorter than the template set the
// leading templates are kept and the trailing nudges before the hand-off are
// dropped; the last step is always the manual hand-off regardless of length
// or job preference.
func NewCampaign(delays []time.Duration) (Campaign, error) {
	if len(delays) == 0 {
		return Campaign{}, fmt.Errorf("campaign: empty delay table")
	}
	if len(delays) > len(stepTemplates) {
		return Campaign{}, fmt.Errorf("campaign: %d delays but only %d step templates", len(delays), len(stepTemplates))
	}
	for i := 1; i < len(delays); i++ {
		if delays[i] <= delays[i-1] {
			return Campaign{}, fmt.Errorf("campaign: delay table not strictly increasing at step %d", i+1)
		}
	}

	n := len(delays)
	steps := make([]Step, 0, n)
	for i, d := range delays {
		tpl := stepTemplates[i]
		if i == n-1 {
			tpl = stepTemplates[len(stepTemplates)-1]
		}
		steps = append(steps, Step{
			Sequence:    i + 1,
			Delay:       d,
			Label:       tpl.label,
			SMSTemplate: tpl.sms,
			SubjectTmpl: tpl.subject,
			EmailTmpl:   tpl.email,
			Manual:      i == n-1,
		})
	}
	return Campaign{Steps: steps}, nil
}

// RenderStep substitutes placeholders into one step's templates. Pure, so
// every step can be exercised without touching storage.
func RenderStep(step Step, info JobInfo) (sms, subject, body string) {
	r := strings.NewReplacer(
		"{first_name}", info.FirstName,
		"{name}", info.Name,
		"{vehicle}", info.Vehicle,
		"{glass}", info.GlassLabel,
		"{price}", FormatPrice(info.QuoteCents),
		"{city}", info.City,
		"{job_number}", info.JobNumber,
	)
	return r.Replace(step.SMSTemplate), r.Replace(step.SubjectTmpl), r.Replace(step.EmailTmpl)
}

func FormatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
