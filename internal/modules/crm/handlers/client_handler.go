package handlers

import (
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/repositories"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ClientHandler struct {
	clientService   *services.ClientService
	analysisService *services.AnalysisService
}

func NewClientHandler(clientService *services.ClientService, analysisService *services.AnalysisService) *ClientHandler {
	return &ClientHandler{
		clientService:   clientService,
		analysisService: analysisService,
	}
}

// ListClients godoc
// @Summary List clients
// @Description Returns non-deleted clients, most recently updated first
// @Tags Clients
// @Produce json
// @Param search query string false "Name or phone fragment"
// @Param status query string false "Active, Potential or Inactive"
// @Param sort query string false "lastInteraction to sort by last interaction"
// @Param limit query int false "Maximum number of clients"
// @Success 200 {array} models.Client
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	status, err := normalizeStatus(engagement.Status(c.Query("status")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	clients, err := h.clientService.List(c.UserContext(), repositories.ClientFilter{
		Search:                c.Query("search"),
		Status:                status,
		SortByLastInteraction: c.Query("sort") == "lastInteraction",
		Limit:                 c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(clients)
}

// GetStats godoc
// @Summary Client statistics
// @Description Counts non-deleted clients per status
// @Tags Clients
// @Produce json
// @Success 200 {object} models.ClientStats
// @Router /clients/stats [get]
func (h *ClientHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.clientService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// CreateClient godoc
// @Summary Create client
// @Description Creates a client; the phone must not belong to another live client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body services.CreateClientInput true "New client"
// @Success 201 {object} models.Client
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var req services.CreateClientInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	status, err := normalizeStatus(req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	req.Status = status

	client, err := h.clientService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(client)
}

// GetClient godoc
// @Summary Get client by ID
// @Description Returns a client with its interaction history
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} models.Client
// @Failure 404 {object} map[string]interface{}
// @Router /clients/{id} [get]
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidClientID(c)
	}

	client, err := h.clientService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// UpdateClient godoc
// @Summary Update client
// @Description Edits name, phone or status
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param client body services.UpdateClientInput true "Fields to change"
// @Success 200 {object} models.Client
// @Failure 409 {object} map[string]interface{}
// @Router /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidClientID(c)
	}

	var req services.UpdateClientInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Status != nil {
		status, err := engagement.ParseStatus(string(*req.Status))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		req.Status = &status
	}

	client, err := h.clientService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// DeleteClient godoc
// @Summary Delete client
// @Description Soft-deletes a client; it disappears from listings and statistics
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} map[string]interface{}
// @Router /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidClientID(c)
	}

	if err := h.clientService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "softDeleted": true})
}

// AddInteraction godoc
// @Summary Add interaction
// @Description Appends a note to the client's history and updates the last interaction date
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param interaction body services.AddInteractionInput true "Interaction"
// @Success 201 {object} models.Client
// @Router /clients/{id}/interactions [post]
func (h *ClientHandler) AddInteraction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidClientID(c)
	}

	var req services.AddInteractionInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	client, err := h.clientService.AddInteraction(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// AnalyzeClient godoc
// @Summary Analyze stored client
// @Description Engagement analysis of a stored client. Falls back to local rules when the AI provider is unavailable.
// @Tags Analysis
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} services.AnalysisResult
// @Router /clients/{id}/analysis [get]
func (h *ClientHandler) AnalyzeClient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidClientID(c)
	}

	client, err := h.clientService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	result := h.analysisService.Analyze(c.UserContext(), services.SnapshotFromClient(client))
	return c.JSON(result)
}

// ApplyRecommendation godoc
// @Summary Apply recommended status
// @Description Sets the status recommended by the engagement rules when it differs from the current one
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} services.ApplyRecommendationResult
// @Router /clients/{id}/apply-recommendation [post]
func (h *ClientHandler) ApplyRecommendation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidClientID(c)
	}

	result, err := h.clientService.ApplyRecommendation(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
