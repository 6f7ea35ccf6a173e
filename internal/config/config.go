package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	JWTTTL    time.Duration

	// Outreach engine
	Timezone          *time.Location
	BusinessStartHour int
	BusinessEndHour   int
	WorkerInterval    time.Duration
	DigestInterval    time.Duration
	ReminderInterval  time.Duration
	CampaignDelays    []time.Duration
	AuthFailureBudget int

	// Gateways
	DigestTo        string
	EmailFrom       string
	SMSWebhookURL   string
	EmailWebhookURL string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")

	var err error
	if cfg.JWTTTL, err = getenvDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return cfg, err
	}

	loc, err := time.LoadLocation(getenv("TIMEZONE", "America/Chicago"))
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Timezone = loc

	if cfg.BusinessStartHour, err = getenvInt("BUSINESS_HOURS_START", 8); err != nil {
		return cfg, err
	}
	if cfg.BusinessEndHour, err = getenvInt("BUSINESS_HOURS_END", 20); err != nil {
		return cfg, err
	}
	if cfg.BusinessStartHour < 0 || cfg.BusinessEndHour > 24 || cfg.BusinessStartHour >= cfg.BusinessEndHour {
		return cfg, fmt.Errorf("invalid business hours window %d..%d", cfg.BusinessStartHour, cfg.BusinessEndHour)
	}

	if cfg.WorkerInterval, err = getenvDuration("WORKER_INTERVAL", time.Minute); err != nil {
		return cfg, err
	}
	if cfg.DigestInterval, err = getenvDuration("DIGEST_INTERVAL", 20*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.ReminderInterval, err = getenvDuration("REMINDER_INTERVAL", 5*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.AuthFailureBudget, err = getenvInt("AUTH_FAILURE_BUDGET", 3); err != nil {
		return cfg, err
	}

	cfg.CampaignDelays, err = ParseDelayHours(getenv("CAMPAIGN_DELAY_HOURS", "0,2,4,6,8,10,12"))
	if err != nil {
		return cfg, err
	}

	cfg.DigestTo = mustGetenv("DIGEST_TO")
	cfg.EmailFrom = getenv("EMAIL_FROM", cfg.DigestTo)
	cfg.SMSWebhookURL = mustGetenv("SMS_WEBHOOK_URL")
	cfg.EmailWebhookURL = mustGetenv("EMAIL_WEBHOOK_URL")

	return cfg, nil
}

// ParseDelayHours parses a comma list of hour offsets ("0,2,4") into durations.
func ParseDelayHours(s string) ([]time.Duration, error) {
	parts := strings.Split(s, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		h, err := strconv.ParseFloat(p, 64)
		if err != nil || h < 0 {
			return nil, fmt.Errorf("invalid delay hours entry %q", p)
		}
		out = append(out, time.Duration(h*float64(time.Hour)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty delay table")
	}
	return out, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
