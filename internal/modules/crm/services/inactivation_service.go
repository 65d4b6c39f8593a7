package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Run triggers
const (
	TriggerHTTP   = "http"
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// inactivationBuckets are the statuses the job moves to Inactive
var inactivationBuckets = []engagement.Status{engagement.StatusActive, engagement.StatusPotential}

// TransitionFailure is one client the job could not update
type TransitionFailure struct {
	ClientID uuid.UUID `json:"clientId"`
	Error    string    `json:"error"`
}

// InactivationResult summarizes one bulk run
type InactivationResult struct {
	RunID        uuid.UUID           `json:"runId"`
	Trigger      string              `json:"trigger"`
	Transitioned int                 `json:"transitioned"`
	Failures     []TransitionFailure `json:"failures"`
	Cutoff       time.Time           `json:"cutoff"`
	StartedAt    time.Time           `json:"startedAt"`
	CompletedAt  time.Time           `json:"completedAt"`
}

// Status reports the run outcome stored in the history
func (r *InactivationResult) Status(runErr error) string {
	switch {
	case runErr != nil:
		return models.RunStatusFailed
	case len(r.Failures) > 0:
		return models.RunStatusPartial
	default:
		return models.RunStatusCompleted
	}
}

// InactivationService moves clients without recent contact to Inactive
type InactivationService struct {
	clients repositories.ClientRepo
	runs    repositories.AutomationRunRepo
	now     func() time.Time
}

// NewInactivationService creates the bulk inactivation job. runs may be nil
// when run history is not kept.
func NewInactivationService(clients repositories.ClientRepo, runs repositories.AutomationRunRepo) *InactivationService {
	return &InactivationService{
		clients: clients,
		runs:    runs,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RunInactivation marks every live Active or Potential client whose last
// interaction is more than 30 days old as Inactive. Clients that fail to
// update are reported and skipped. A failed candidate query or a cancelled
// context stops the run; the partial result is returned with the error.
func (s *InactivationService) RunInactivation(ctx context.Context, trigger string) (*InactivationResult, error) {
	startedAt := s.now()
	result := &InactivationResult{
		Trigger:   trigger,
		Failures:  []TransitionFailure{},
		Cutoff:    engagement.InactiveCutoff(startedAt),
		StartedAt: startedAt,
	}

	log.Info().Str("trigger", trigger).Time("cutoff", result.Cutoff).Msg("🔄 Starting inactivation run")

	runErr := s.process(ctx, result)
	result.CompletedAt = s.now()

	status := result.Status(runErr)
	metrics.RecordInactivationRun(trigger, status, result.Transitioned, len(result.Failures))
	s.recordRun(ctx, result, status, runErr)

	event := log.Info()
	if runErr != nil {
		event = log.Error().Err(runErr)
	} else if len(result.Failures) > 0 {
		event = log.Warn()
	}
	event.Str("trigger", trigger).
		Str("status", status).
		Int("transitioned", result.Transitioned).
		Int("failed", len(result.Failures)).
		Dur("duration", result.CompletedAt.Sub(startedAt)).
		Msg("✅ Inactivation run finished")

	return result, runErr
}

func (s *InactivationService) process(ctx context.Context, result *InactivationResult) error {
	for _, status := range inactivationBuckets {
		if err := ctx.Err(); err != nil {
			return err
		}

		candidates, err := s.clients.FindInactivationCandidates(ctx, status, result.Cutoff)
		if err != nil {
			return fmt.Errorf("failed to query %s clients: %w", status, err)
		}

		for _, client := range candidates {
			if err := ctx.Err(); err != nil {
				return err
			}

			changed, err := s.clients.MarkInactive(ctx, client.ID, result.Cutoff, s.now())
			if err != nil {
				log.Warn().Err(err).Str("client_id", client.ID.String()).Msg("⚠️ Failed to mark client inactive")
				result.Failures = append(result.Failures, TransitionFailure{ClientID: client.ID, Error: err.Error()})
				continue
			}
			if changed {
				result.Transitioned++
			}
		}
	}
	return nil
}

// recordRun stores the run history. Errors are logged, not returned.
func (s *InactivationService) recordRun(ctx context.Context, result *InactivationResult, status string, runErr error) {
	if s.runs == nil {
		return
	}

	failures, err := json.Marshal(result.Failures)
	if err != nil {
		failures = []byte("[]")
	}

	run := &models.AutomationRun{
		Trigger:           result.Trigger,
		Status:            status,
		TransitionedCount: result.Transitioned,
		FailedCount:       len(result.Failures),
		Failures:          datatypes.JSON(failures),
		StartedAt:         result.StartedAt,
		CompletedAt:       result.CompletedAt,
		DurationMs:        result.CompletedAt.Sub(result.StartedAt).Milliseconds(),
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}

	if err := s.runs.Create(context.WithoutCancel(ctx), run); err != nil {
		log.Warn().Err(err).Msg("failed to record automation run")
		return
	}
	result.RunID = run.ID
}

// RecentRuns lists the latest run history entries
func (s *InactivationService) RecentRuns(ctx context.Context, limit int) ([]models.AutomationRun, error) {
	if s.runs == nil {
		return []models.AutomationRun{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runs.FindRecent(ctx, limit)
}
