package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/czarkazmx1x/stagifyai-saas/config"
	"github.com/czarkazmx1x/stagifyai-saas/middleware"
	"github.com/czarkazmx1x/stagifyai-saas/models"
	"github.com/czarkazmx1x/stagifyai-saas/tenancy"
	"github.com/czarkazmx1x/stagifyai-saas/utils"
)

type TenantsHandler struct {
	db *gorm.DB
}

func NewTenantsHandler(db *gorm.DB) *TenantsHandler {
	return &TenantsHandler{db: db}
}

func SetupTenantRoutes(app *fiber.App, cfg config.Config, gate *tenancy.Gate, h *TenantsHandler) {
	tenant := app.Group("/api/tenant", middleware.JWT(cfg.JWTSecret))

	viewer := middleware.Guard(gate, tenancy.Policy{RequiredRole: models.RoleViewer})
	admin := middleware.Guard(gate, tenancy.Policy{RequiredRole: models.RoleAdmin})
	owner := middleware.Guard(gate, tenancy.Policy{RequiredRole: models.RoleOwner})

	tenant.Get("/", viewer, h.Show)
	tenant.Patch("/", admin, h.Update)

	tenant.Get("/settings", admin, h.ListSettings)
	tenant.Put("/settings/:key", admin, h.UpsertSetting)

	tenant.Get("/members", admin, h.ListMembers)
	tenant.Patch("/members/:id/role", owner, h.UpdateMemberRole)

	tenant.Get("/organizations", viewer, h.ListOrganizations)
	tenant.Post("/organizations", middleware.Guard(gate, tenancy.Policy{
		RequiredRole: models.RoleAdmin,
		Feature:      tenancy.FeatureOrganizations,
	}), h.CreateOrganization)
}

func (h *TenantsHandler) Show(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)
	return c.JSON(tctx.Tenant)
}

type updateTenantPayload struct {
	Name         string  `json:"name"`
	CustomDomain *string `json:"custom_domain"`
}

// Update modifie nom et domaine personnalisé. Le domaine est réservé aux
// offres qui portent la fonctionnalité.
func (h *TenantsHandler) Update(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	var body updateTenantPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	tenant := tctx.Tenant
	if body.Name != "" {
		tenant.Name = body.Name
	}
	if body.CustomDomain != nil {
		if !tenancy.PlanHasFeature(tenant.Plan, tenancy.FeatureCustomDomain) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "Le domaine personnalisé n'est pas inclus dans l'offre " + tenant.Plan,
				"reason": tenancy.ReasonPlanFeatureDenied,
			})
		}
		tenant.CustomDomain = body.CustomDomain
	}

	if err := h.db.WithContext(c.Context()).Save(&tenant).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur mise à jour du tenant"})
	}
	return c.JSON(tenant)
}

func (h *TenantsHandler) ListSettings(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	var settings []models.TenantSetting
	err := h.db.WithContext(c.Context()).
		Where("tenant_id = ?", tctx.Tenant.ID).
		Order("key ASC").
		Find(&settings).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lors de la récupération des réglages"})
	}
	return c.JSON(fiber.Map{"settings": settings})
}

type settingPayload struct {
	Value string `json:"value"`
}

// UpsertSetting : création ou remplacement de la valeur pour (tenant, clé).
func (h *TenantsHandler) UpsertSetting(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Clé requise"})
	}

	var body settingPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	setting := models.TenantSetting{
		TenantID: tctx.Tenant.ID,
		Key:      key,
		Value:    body.Value,
	}
	err := h.db.WithContext(c.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur enregistrement du réglage"})
	}
	return c.JSON(setting)
}

func (h *TenantsHandler) ListMembers(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	var members []models.User
	err := h.db.WithContext(c.Context()).
		Where("tenant_id = ?", tctx.Tenant.ID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lors de la récupération des membres"})
	}
	return c.JSON(fiber.Map{"members": members})
}

type rolePayload struct {
	Role string `json:"role"`
}

func (h *TenantsHandler) UpdateMemberRole(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	memberID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}

	var body rolePayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}
	switch body.Role {
	case models.RoleOwner, models.RoleAdmin, models.RoleMember, models.RoleViewer:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rôle inconnu"})
	}

	var member models.User
	if err := h.db.WithContext(c.Context()).
		Where("tenant_id = ?", tctx.Tenant.ID).
		First(&member, memberID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Membre introuvable"})
	}

	member.Role = body.Role
	if err := h.db.WithContext(c.Context()).Save(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur mise à jour du rôle"})
	}
	return c.JSON(member)
}

type orgPayload struct {
	Name string `json:"name"`
}

func (h *TenantsHandler) CreateOrganization(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	var body orgPayload
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nom requis"})
	}

	org := models.Organization{
		TenantID: tctx.Tenant.ID,
		Name:     body.Name,
		Slug:     utils.GenerateSlug(body.Name),
	}
	if err := h.db.WithContext(c.Context()).Create(&org).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur création de l'organisation"})
	}
	return c.Status(fiber.StatusCreated).JSON(org)
}

func (h *TenantsHandler) ListOrganizations(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	var orgs []models.Organization
	err := h.db.WithContext(c.Context()).
		Where("tenant_id = ?", tctx.Tenant.ID).
		Find(&orgs).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lors de la récupération des organisations"})
	}
	return c.JSON(fiber.Map{"organizations": orgs})
}
