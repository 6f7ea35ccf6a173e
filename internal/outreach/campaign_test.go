package outreach

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInfo = JobInfo{
	JobID:      1,
	JobNumber:  "AG-TEST0001",
	Name:       "Dana Whitfield",
	FirstName:  "Dana",
	Phone:      "+15125550142",
	Email:      "dana@example.com",
	Vehicle:    "2019 Honda Civic",
	GlassLabel: "windshield",
	City:       "Austin",
	QuoteCents: 24900,
}

func hourTable(hours ...float64) []time.Duration {
	out := make([]time.Duration, len(hours))
	for i, h := range hours {
		out[i] = time.Duration(h * float64(time.Hour))
	}
	return out
}

func TestNewCampaignBuildsSteps(t *testing.T) {
	c, err := NewCampaign(hourTable(0, 2, 4, 6, 8, 10, 12))
	require.NoError(t, err)
	require.Len(t, c.Steps, 7)

	for i, step := range c.Steps {
		assert.Equal(t, i+1, step.Sequence)
		if i > 0 {
			assert.Greater(t, step.Delay, c.Steps[i-1].Delay)
		}
		if i == len(c.Steps)-1 {
			assert.True(t, step.Manual, "final step must be manual")
		} else {
			assert.False(t, step.Manual, "step %d should be automatic-eligible", i+1)
		}
	}
	assert.Equal(t, "personal call", c.Steps[6].Label)
}

func TestNewCampaignShortTableKeepsManualTail(t *testing.T) {
	c, err := NewCampaign(hourTable(0, 3, 6))
	require.NoError(t, err)
	require.Len(t, c.Steps, 3)
	assert.False(t, c.Steps[0].Manual)
	assert.False(t, c.Steps[1].Manual)
	assert.True(t, c.Steps[2].Manual)
	assert.Equal(t, "personal call", c.Steps[2].Label)
}

func TestNewCampaignValidation(t *testing.T) {
	_, err := NewCampaign(nil)
	assert.Error(t, err)

	_, err = NewCampaign(hourTable(0, 4, 2))
	assert.Error(t, err)

	_, err = NewCampaign(hourTable(0, 2, 2))
	assert.Error(t, err)

	_, err = NewCampaign(hourTable(0, 1, 2, 3, 4, 5, 6, 7))
	assert.Error(t, err)
}

func TestRenderStepSubstitutesEveryPlaceholder(t *testing.T) {
	c, err := NewCampaign(hourTable(0, 2, 4, 6, 8, 10, 12))
	require.NoError(t, err)

	for _, step := range c.Steps {
		sms, subject, body := RenderStep(step, testInfo)
		for _, s := range []string{sms, subject, body} {
			assert.NotContains(t, s, "{", "step %d left a placeholder in %q", step.Sequence, s)
		}
		joined := sms + subject + body
		assert.True(t, strings.Contains(joined, "Dana") || strings.Contains(joined, "$249.00"),
			"step %d rendered nothing customer-specific", step.Sequence)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$249.00", FormatPrice(24900))
	assert.Equal(t, "$0.05", FormatPrice(5))
	assert.Equal(t, "$1200.50", FormatPrice(120050))
}
