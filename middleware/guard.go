package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/czarkazmx1x/stagifyai-saas/models"
	"github.com/czarkazmx1x/stagifyai-saas/tenancy"
)

const tenantContextKey = "tenant_ctx"

// Guard invoque le Gate avec la politique de la route et dépose le contexte
// résolu dans les locals. Le premier refus applicable est renvoyé tel quel,
// avec sa raison stable pour le front.
func Guard(gate *tenancy.Gate, policy tenancy.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tctx, err := gate.Admit(c.Context(), UserID(c), policy)
		if err != nil {
			rej := tenancy.AsRejection(err)
			return c.Status(rejectionStatus(rej.Reason)).JSON(fiber.Map{
				"error":  rej.Detail,
				"reason": rej.Reason,
			})
		}
		// Chaque requête admise compte un appel API.
		if err := gate.Meter().RecordUsage(c.Context(), tctx.Tenant.ID, models.ResourceAPICall, 1); err != nil {
			rej := tenancy.AsRejection(err)
			return c.Status(rejectionStatus(rej.Reason)).JSON(fiber.Map{
				"error":  rej.Detail,
				"reason": rej.Reason,
			})
		}
		c.Locals(tenantContextKey, tctx)
		return c.Next()
	}
}

// TenantContext relit le contexte déposé par Guard.
func TenantContext(c *fiber.Ctx) *tenancy.Context {
	tctx, _ := c.Locals(tenantContextKey).(*tenancy.Context)
	return tctx
}

func rejectionStatus(reason tenancy.Reason) int {
	switch reason {
	case tenancy.ReasonUnauthenticated:
		return fiber.StatusUnauthorized
	case tenancy.ReasonNoTenantContext, tenancy.ReasonInsufficientRole, tenancy.ReasonPlanFeatureDenied:
		return fiber.StatusForbidden
	case tenancy.ReasonQuotaExceeded:
		return fiber.StatusTooManyRequests
	case tenancy.ReasonUpstreamFailure:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
