package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelayHours(t *testing.T) {
	got, err := ParseDelayHours("0,2,4,6")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{0, 2 * time.Hour, 4 * time.Hour, 6 * time.Hour}, got)

	got, err = ParseDelayHours(" 0 , 1.5 ")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{0, 90 * time.Minute}, got)

	_, err = ParseDelayHours("0,two,4")
	assert.Error(t, err)

	_, err = ParseDelayHours("")
	assert.Error(t, err)

	_, err = ParseDelayHours("-2")
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DIGEST_TO", "owner@example.com")
	t.Setenv("SMS_WEBHOOK_URL", "http://localhost:9001/sms")
	t.Setenv("EMAIL_WEBHOOK_URL", "http://localhost:9002/email")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Minute, cfg.WorkerInterval)
	assert.Equal(t, 20*time.Minute, cfg.DigestInterval)
	assert.Equal(t, 5*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, 8, cfg.BusinessStartHour)
	assert.Equal(t, 20, cfg.BusinessEndHour)
	assert.Equal(t, 3, cfg.AuthFailureBudget)
	assert.Len(t, cfg.CampaignDelays, 7)
	assert.Equal(t, "owner@example.com", cfg.EmailFrom)
}

func TestLoadRejectsBadWindow(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BUSINESS_HOURS_START", "20")
	t.Setenv("BUSINESS_HOURS_END", "8")

	_, err := Load()
	require.Error(t, err)
}
