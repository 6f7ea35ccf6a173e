package crm

import (
	"fmt"
	"strings"
	"time"
)

const (
	StageLead      = "lead"
	StageQuoted    = "quoted"
	StageScheduled = "scheduled"
	StageCompleted = "completed"
	StageLost      = "lost"
)

var glassLabels = map[string]string{
	"windshield":    "windshield",
	"door_glass":    "door glass",
	"back_glass":    "back glass",
	"quarter_glass": "quarter glass",
	"sunroof":       "sunroof glass",
}

// Job is a customer work order moving through the pipeline.
type Job struct {
	ID        uint64 `gorm:"primaryKey"`
	JobNumber string `gorm:"uniqueIndex;not null"`

	CustomerName  string `gorm:"not null"`
	CustomerPhone string `gorm:"not null;default:''"`
	CustomerEmail string `gorm:"not null;default:''"`

	VehicleYear  int    `gorm:"not null;default:0"`
	VehicleMake  string `gorm:"not null;default:''"`
	VehicleModel string `gorm:"not null;default:''"`
	GlassType    string `gorm:"not null;default:'windshield'"`
	QuoteCents   int64  `gorm:"not null;default:0"`
	City         string `gorm:"not null;default:''"`

	Stage        string `gorm:"index;not null;default:'lead'"`
	FollowUpMode string `gorm:"not null;default:'manual'"` // auto | manual

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// Vehicle renders "2019 Honda Civic" for display and message templates.
func (j *Job) Vehicle() string {
	parts := make([]string, 0, 3)
	if j.VehicleYear > 0 {
		parts = append(parts, fmt.Sprintf("%d", j.VehicleYear))
	}
	if j.VehicleMake != "" {
		parts = append(parts, j.VehicleMake)
	}
	if j.VehicleModel != "" {
		parts = append(parts, j.VehicleModel)
	}
	if len(parts) == 0 {
		return "vehicle"
	}
	return strings.Join(parts, " ")
}

func (j *Job) FirstName() string {
	name := strings.TrimSpace(j.CustomerName)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

func (j *Job) GlassLabel() string {
	if l, ok := glassLabels[j.GlassType]; ok {
		return l
	}
	return "auto glass"
}

// Lead is an inbound inquiry that hasn't become a job yet.
type Lead struct {
	ID        uint64    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"not null;default:''"`
	Source    string    `gorm:"not null;default:''"` // web form, google, referral...
	Notes     string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"index;autoCreateTime;not null"`
}

// CallRecord is one inbound phone call; missed ones feed the digest.
type CallRecord struct {
	ID         uint64    `gorm:"primaryKey"`
	Phone      string    `gorm:"not null"`
	CallerName string    `gorm:"not null;default:''"`
	Missed     bool      `gorm:"index;not null;default:false"`
	CreatedAt  time.Time `gorm:"index;autoCreateTime;not null"`
}
