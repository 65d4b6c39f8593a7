package handlers

import "github.com/gofiber/fiber/v2"

// Routes groups the CRM handlers mounted on the app
type Routes struct {
	Health     *HealthHandler
	Clients    *ClientHandler
	Analysis   *AnalysisHandler
	Automation *AutomationHandler
}

// Register mounts every CRM route
func (r Routes) Register(app fiber.Router) {
	// Health check
	app.Get("/health", r.Health.GetHealth)

	// Client routes
	app.Get("/clients", r.Clients.ListClients)
	app.Post("/clients", r.Clients.CreateClient)
	app.Get("/clients/stats", r.Clients.GetStats)
	app.Get("/clients/:id", r.Clients.GetClient)
	app.Put("/clients/:id", r.Clients.UpdateClient)
	app.Delete("/clients/:id", r.Clients.DeleteClient)
	app.Post("/clients/:id/interactions", r.Clients.AddInteraction)
	app.Get("/clients/:id/analysis", r.Clients.AnalyzeClient)
	app.Post("/clients/:id/apply-recommendation", r.Clients.ApplyRecommendation)

	// Analysis
	app.Post("/api/analyze-client", r.Analysis.AnalyzeClient)

	// Automation routes
	automation := app.Group("/api/automation")
	automation.Post("/mark-inactive", r.Automation.MarkInactive)
	automation.Get("/mark-inactive", r.Automation.MarkInactiveHealth)
	automation.Get("/runs", r.Automation.ListRuns)
	automation.Post("/schedules", r.Automation.CreateSchedule)
	automation.Get("/schedules", r.Automation.ListSchedules)
	automation.Delete("/schedules/:id", r.Automation.DeleteSchedule)
}
