package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glasscrm/internal/auth"
	"glasscrm/internal/config"
	"glasscrm/internal/crm"
	"glasscrm/internal/db"
	"glasscrm/internal/digest"
	"glasscrm/internal/gateway"
	httpx "glasscrm/internal/http"
	"glasscrm/internal/outreach"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	campaign, err := outreach.NewCampaign(cfg.CampaignDelays)
	if err != nil {
		log.Fatal(err)
	}

	smsGW := gateway.NewWebhookSMS(cfg.SMSWebhookURL)
	emailGW := gateway.NewWebhookEmail(cfg.EmailWebhookURL, cfg.EmailFrom)

	scheduler := &outreach.Scheduler{Campaign: campaign, Generator: gateway.TemplateText{}}
	svc := &crm.Service{DB: gdb, Scheduler: scheduler}
	repo := &outreach.Repo{DB: gdb}

	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	r := httpx.NewRouter(cfg, gdb, jwtSvc, svc, repo)

	// outreach engine
	worker := &outreach.Worker{Repo: repo, SMS: smsGW, Email: emailGW, Interval: cfg.WorkerInterval}
	hours := digest.Hours{Loc: cfg.Timezone, Start: cfg.BusinessStartHour, End: cfg.BusinessEndHour}
	state := &digest.RunState{}
	aggregator := &digest.Aggregator{
		DB:       gdb,
		Email:    emailGW,
		State:    state,
		To:       cfg.DigestTo,
		Hours:    hours,
		Interval: cfg.DigestInterval,
	}
	reminder := &digest.Reminder{
		DB:            gdb,
		Email:         emailGW,
		State:         state,
		To:            cfg.DigestTo,
		Hours:         hours,
		Interval:      cfg.ReminderInterval,
		FailureBudget: cfg.AuthFailureBudget,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)
	go aggregator.Run(ctx)
	go reminder.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
