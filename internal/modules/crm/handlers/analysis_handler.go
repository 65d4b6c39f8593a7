package handlers

import (
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/services"
	"github.com/gofiber/fiber/v2"
)

type AnalysisHandler struct {
	analysisService *services.AnalysisService
}

func NewAnalysisHandler(analysisService *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeClientRequest wraps the posted client snapshot
type AnalyzeClientRequest struct {
	ClientData *services.ClientSnapshot `json:"clientData"`
}

// AnalyzeClient godoc
// @Summary Analyze client snapshot
// @Description AI engagement analysis of a posted client. Always answers; sourceLabel tells whether the text came from the AI provider or the local rules.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body AnalyzeClientRequest true "Client snapshot"
// @Success 200 {object} services.AnalysisResult
// @Failure 400 {object} map[string]interface{}
// @Router /api/analyze-client [post]
func (h *AnalysisHandler) AnalyzeClient(c *fiber.Ctx) error {
	var req AnalyzeClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.ClientData == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "clientData is required"})
	}

	snap := *req.ClientData
	status, err := normalizeStatus(snap.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	snap.Status = status

	if err := snap.Validate(); err != nil {
		return respondError(c, err)
	}

	return c.JSON(h.analysisService.Analyze(c.UserContext(), snap))
}
