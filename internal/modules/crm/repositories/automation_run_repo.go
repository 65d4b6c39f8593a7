package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"gorm.io/gorm"
)

// AutomationRunRepo stores the history of bulk inactivation runs
type AutomationRunRepo interface {
	Create(ctx context.Context, run *models.AutomationRun) error
	FindRecent(ctx context.Context, limit int) ([]models.AutomationRun, error)
}

type automationRunRepo struct {
	db *gorm.DB
}

// NewAutomationRunRepo creates a new automation run repository
func NewAutomationRunRepo(db *gorm.DB) AutomationRunRepo {
	return &automationRunRepo{db: db}
}

func (r *automationRunRepo) Create(ctx context.Context, run *models.AutomationRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *automationRunRepo) FindRecent(ctx context.Context, limit int) ([]models.AutomationRun, error) {
	var runs []models.AutomationRun
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}
