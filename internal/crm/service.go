package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"glasscrm/internal/outreach"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrInvalidStage = errors.New("invalid stage transition")

// stage pipeline order; lost is reachable from anything but completed
var stageOrder = map[string]int{
	StageLead:      0,
	StageQuoted:    1,
	StageScheduled: 2,
	StageCompleted: 3,
}

// committedStages are the ones where the customer has booked: entering one
// voids the rest of the follow-up campaign.
var committedStages = map[string]bool{
	StageScheduled: true,
	StageCompleted: true,
}

type Service struct {
	DB        *gorm.DB
	Scheduler *outreach.Scheduler
}

type CreateJobInput struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	VehicleYear   int
	VehicleMake   string
	VehicleModel  string
	GlassType     string
	QuoteCents    int64
	City          string
	FollowUpMode  string // auto | manual, defaults manual
}

// CreateJob persists the work order and materializes its follow-up campaign
// in the same transaction, so a job can never exist half-scheduled.
func (s *Service) CreateJob(ctx context.Context, in CreateJobInput) (*Job, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, fmt.Errorf("customer name required")
	}

	job := Job{
		JobNumber:     "AG-" + strings.ToUpper(uuid.NewString()[:8]),
		CustomerName:  name,
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		CustomerEmail: strings.TrimSpace(strings.ToLower(in.CustomerEmail)),
		VehicleYear:   in.VehicleYear,
		VehicleMake:   strings.TrimSpace(in.VehicleMake),
		VehicleModel:  strings.TrimSpace(in.VehicleModel),
		GlassType:     in.GlassType,
		QuoteCents:    in.QuoteCents,
		City:          strings.TrimSpace(in.City),
		Stage:         StageLead,
		FollowUpMode:  outreach.ModeManual,
	}
	if in.FollowUpMode == outreach.ModeAuto {
		job.FollowUpMode = outreach.ModeAuto
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		info := outreach.JobInfo{
			JobID:      job.ID,
			JobNumber:  job.JobNumber,
			Name:       job.CustomerName,
			FirstName:  job.FirstName(),
			Phone:      job.CustomerPhone,
			Email:      job.CustomerEmail,
			Vehicle:    job.Vehicle(),
			GlassLabel: job.GlassLabel(),
			City:       job.City,
			QuoteCents: job.QuoteCents,
		}
		_, err := s.Scheduler.Schedule(ctx, tx, info, job.FollowUpMode, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// AdvanceStage moves a job forward through the pipeline. Entering a
// committed stage archives every still-pending follow-up task synchronously
// in the same transaction, closing the race where the worker fires a step
// moments after booking.
func (s *Service) AdvanceStage(ctx context.Context, jobID uint64, next string) (*Job, int64, error) {
	if _, ok := stageOrder[next]; !ok && next != StageLost {
		return nil, 0, ErrInvalidStage
	}

	var job Job
	var archived int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", jobID).First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if job.Stage == StageCompleted || job.Stage == StageLost {
			return ErrInvalidStage
		}
		if next != StageLost && stageOrder[next] <= stageOrder[job.Stage] {
			return ErrInvalidStage
		}

		prev := job.Stage
		job.Stage = next
		job.UpdatedAt = time.Now()
		if err := tx.Model(&Job{}).Where("id = ?", job.ID).
			Updates(map[string]any{"stage": next, "updated_at": job.UpdatedAt}).Error; err != nil {
			return err
		}

		if committedStages[next] && !committedStages[prev] {
			n, err := outreach.ArchivePending(tx, job.ID, job.JobNumber)
			if err != nil {
				return err
			}
			archived = n
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &job, archived, nil
}

func (s *Service) GetJob(ctx context.Context, id uint64) (*Job, error) {
	var job Job
	if err := s.DB.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (s *Service) ListJobs(ctx context.Context, stage string) ([]Job, error) {
	q := s.DB.WithContext(ctx).Order("id desc")
	if stage != "" {
		q = q.Where("stage = ?", stage)
	}
	var jobs []Job
	err := q.Find(&jobs).Error
	return jobs, err
}

func (s *Service) CreateLead(ctx context.Context, l *Lead) error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" && strings.TrimSpace(l.Phone) == "" {
		return fmt.Errorf("lead needs a name or a phone")
	}
	return s.DB.WithContext(ctx).Create(l).Error
}

func (s *Service) RecordCall(ctx context.Context, c *CallRecord) error {
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("call needs a phone")
	}
	return s.DB.WithContext(ctx).Create(c).Error
}

func (s *Service) LeadsSince(ctx context.Context, t time.Time) ([]Lead, error) {
	var leads []Lead
	err := s.DB.WithContext(ctx).
		Where("created_at >= ?", t).Order("id asc").Find(&leads).Error
	return leads, err
}

func (s *Service) MissedCallsSince(ctx context.Context, t time.Time) ([]CallRecord, error) {
	var calls []CallRecord
	err := s.DB.WithContext(ctx).
		Where("missed = ? AND created_at >= ?", true, t).Order("id asc").Find(&calls).Error
	return calls, err
}
