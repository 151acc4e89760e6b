package routes

import (
	"lead-insights-service/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, leadController controller.LeadController) {
	app.Post("/leads", leadController.CreateLead)
	app.Get("/leads", leadController.GetLeads)
	app.Get("/leads/export", leadController.ExportLeads)
	app.Get("/dashboard/stats", leadController.GetDashboard)
	app.Get("/clients", leadController.GetClients)
	app.Post("/clients/:id/link", leadController.CreateClientLink)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
