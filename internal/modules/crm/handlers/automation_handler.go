package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MarkInactiveJob is the job name shown in schedule listings
const MarkInactiveJob = "mark-inactive"

// scheduledRunTimeout bounds one cron-triggered run
const scheduledRunTimeout = 5 * time.Minute

// InactivationRunner runs the bulk inactivation job
type InactivationRunner interface {
	RunInactivation(ctx context.Context, trigger string) (*services.InactivationResult, error)
	RecentRuns(ctx context.Context, limit int) ([]models.AutomationRun, error)
}

type AutomationHandler struct {
	runner    InactivationRunner
	scheduler *scheduler.Scheduler
}

// NewAutomationHandler creates the automation gateway. sched may be nil,
// which disables the schedule endpoints.
func NewAutomationHandler(runner InactivationRunner, sched *scheduler.Scheduler) *AutomationHandler {
	return &AutomationHandler{runner: runner, scheduler: sched}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// MarkInactive godoc
// @Summary Run inactivation automation
// @Description Marks Active and Potential clients without contact for more than 30 days as Inactive. Requires an Authorization or Upstash-Signature header.
// @Tags Automation
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param Upstash-Signature header string false "Scheduler signature"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/mark-inactive [post]
func (h *AutomationHandler) MarkInactive(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" && c.Get("Upstash-Signature") == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	result, err := h.runner.RunInactivation(c.UserContext(), services.TriggerHTTP)
	if err != nil {
		log.Error().Err(err).Msg("❌ Inactivation automation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal server error",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"message":              "Automation completed",
		"inactiveClientsCount": result.Transitioned,
		"failedClientsCount":   len(result.Failures),
		"runId":                result.RunID,
		"timestamp":            timestamp(),
	})
}

// MarkInactiveHealth godoc
// @Summary Automation health probe
// @Description Reports that the automation endpoint is reachable. Does not touch storage.
// @Tags Automation
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/automation/mark-inactive [get]
func (h *AutomationHandler) MarkInactiveHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "mark-inactive-automation",
		"timestamp": timestamp(),
	})
}

// ListRuns godoc
// @Summary Automation run history
// @Description Most recent inactivation runs, newest first
// @Tags Automation
// @Produce json
// @Param limit query int false "Maximum number of runs (default 20)"
// @Success 200 {object} map[string]interface{}
// @Router /api/automation/runs [get]
func (h *AutomationHandler) ListRuns(c *fiber.Ctx) error {
	runs, err := h.runner.RecentRuns(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "runs": runs})
}

// ScheduledJob returns the function the cron scheduler invokes
func (h *AutomationHandler) ScheduledJob() func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), scheduledRunTimeout)
		defer cancel()

		if _, err := h.runner.RunInactivation(ctx, services.TriggerCron); err != nil {
			log.Error().Err(err).Msg("❌ Scheduled inactivation failed")
		}
	}
}

// CreateScheduleRequest configures a new schedule
type CreateScheduleRequest struct {
	ScheduleID string `json:"scheduleId,omitempty"`
	Cron       string `json:"cron,omitempty"` // default */2 * * * *
}

// CreateSchedule godoc
// @Summary Create automation schedule
// @Description Runs the inactivation automation on a cron expression (5 fields, UTC)
// @Tags Automation
// @Accept json
// @Produce json
// @Param schedule body CreateScheduleRequest false "Schedule"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/automation/schedules [post]
func (h *AutomationHandler) CreateSchedule(c *fiber.Ctx) error {
	if h.scheduler == nil {
		return schedulerDisabled(c)
	}

	var req CreateScheduleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
	}
	if req.ScheduleID == "" {
		req.ScheduleID = uuid.NewString()
	}

	entry, err := h.scheduler.Add(req.ScheduleID, req.Cron, MarkInactiveJob, h.ScheduledJob())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Schedule created",
		"scheduleId": entry.ID,
		"schedule":   entry.Cron,
		"nextRun":    entry.NextRun,
	})
}

// ListSchedules godoc
// @Summary List automation schedules
// @Tags Automation
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/automation/schedules [get]
func (h *AutomationHandler) ListSchedules(c *fiber.Ctx) error {
	if h.scheduler == nil {
		return schedulerDisabled(c)
	}
	return c.JSON(fiber.Map{"success": true, "schedules": h.scheduler.List()})
}

// DeleteSchedule godoc
// @Summary Delete automation schedule
// @Tags Automation
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/automation/schedules/{id} [delete]
func (h *AutomationHandler) DeleteSchedule(c *fiber.Ctx) error {
	if h.scheduler == nil {
		return schedulerDisabled(c)
	}

	if err := h.scheduler.Remove(c.Params("id")); err != nil {
		if errors.Is(err, scheduler.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Schedule deleted"})
}

func schedulerDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "scheduler is disabled"})
}
