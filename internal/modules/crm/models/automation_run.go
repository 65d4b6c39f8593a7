package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run statuses
const (
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial" // finished, some clients could not be updated
	RunStatusFailed    = "failed"
)

// AutomationRun records a single execution of the bulk inactivation job
type AutomationRun struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Trigger           string         `json:"trigger" gorm:"type:varchar(20);not null"` // 'http', 'cron', 'manual'
	Status            string         `json:"status" gorm:"type:varchar(20);not null;index"`
	TransitionedCount int            `json:"transitioned_count" gorm:"not null;default:0"`
	FailedCount       int            `json:"failed_count" gorm:"not null;default:0"`
	Failures          datatypes.JSON `json:"failures" gorm:"type:jsonb"`
	ErrorMessage      string         `json:"error_message,omitempty" gorm:"type:text"`
	StartedAt         time.Time      `json:"started_at" gorm:"not null;index:,sort:desc"`
	CompletedAt       time.Time      `json:"completed_at" gorm:"not null"`
	DurationMs        int64          `json:"duration_ms"`
}

// TableName specifies the table name for AutomationRun
func (AutomationRun) TableName() string {
	return "crm_automation_runs"
}

// BeforeCreate sets UUID before creating
func (r *AutomationRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AutoMigrate creates or updates the CRM tables. Production uses cmd/migrate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Client{}, &Interaction{}, &AutomationRun{})
}
