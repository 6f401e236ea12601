package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/czarkazmx1x/stagifyai-saas/config"
	"github.com/czarkazmx1x/stagifyai-saas/middleware"
	"github.com/czarkazmx1x/stagifyai-saas/models"
	"github.com/czarkazmx1x/stagifyai-saas/tenancy"
)

type UsageHandler struct {
	meter *tenancy.Meter
}

func NewUsageHandler(meter *tenancy.Meter) *UsageHandler {
	return &UsageHandler{meter: meter}
}

func SetupUsageRoutes(app *fiber.App, cfg config.Config, gate *tenancy.Gate, h *UsageHandler) {
	usage := app.Group("/api/usage",
		middleware.JWT(cfg.JWTSecret),
		middleware.Guard(gate, tenancy.Policy{RequiredRole: models.RoleViewer}),
	)
	usage.Get("/", h.Summary)
}

// Summary : consommation courante et restant par ressource mesurée, pour
// l'offre du tenant.
func (h *UsageHandler) Summary(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	resources := []string{
		models.ResourceStaging,
		models.ResourceStorageBytes,
		models.ResourceAPICall,
	}

	statuses := make([]tenancy.QuotaStatus, 0, len(resources))
	for _, resource := range resources {
		status, err := h.meter.CheckQuota(c.Context(), tctx.Tenant.ID, tctx.Tenant.Plan, resource)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lors du calcul de consommation"})
		}
		statuses = append(statuses, status)
	}

	return c.JSON(fiber.Map{
		"plan":  tctx.Tenant.Plan,
		"usage": statuses,
	})
}
