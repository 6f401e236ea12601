package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/czarkazmx1x/stagifyai-saas/config"
	"github.com/czarkazmx1x/stagifyai-saas/middleware"
	"github.com/czarkazmx1x/stagifyai-saas/models"
	"github.com/czarkazmx1x/stagifyai-saas/tenancy"
	"github.com/czarkazmx1x/stagifyai-saas/utils"
)

type AuthHandler struct {
	db   *gorm.DB
	cfg  config.Config
	gate *tenancy.Gate
}

func NewAuthHandler(db *gorm.DB, cfg config.Config, gate *tenancy.Gate) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, gate: gate}
}

func SetupAuthRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me",
		middleware.JWT(h.cfg.JWTSecret),
		middleware.Guard(h.gate, tenancy.Policy{RequiredRole: models.RoleViewer}),
		h.Me,
	)
}

type registerPayload struct {
	TenantName string `json:"tenant_name"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Tenant   string `json:"tenant"`
}

// Register crée le tenant et son propriétaire en une transaction (offre
// free, statut actif), puis renvoie un token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body registerPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}
	if body.TenantName == "" || body.Email == "" || len(body.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nom du compte, email et mot de passe (8 caractères min.) requis"})
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de hasher le mot de passe"})
	}

	var user models.User
	err = h.db.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		tenant := models.Tenant{
			Name:     body.TenantName,
			Slug:     utils.GenerateSlug(body.TenantName),
			Plan:     models.TenantPlanFree,
			Status:   models.StatusActive,
			Settings: datatypes.JSONMap{},
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		user = models.User{
			TenantID: tenant.ID,
			Email:    body.Email,
			Name:     body.Name,
			Password: hash,
			Role:     models.RoleOwner,
			Status:   models.StatusActive,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur création du compte"})
	}

	token, err := h.createToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de générer le token"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}

	// L'email n'est unique que par tenant : on cherche parmi les candidats
	// celui dont le mot de passe correspond, ou on restreint au slug fourni.
	query := h.db.WithContext(c.Context()).Where("email = ?", body.Email)
	if body.Tenant != "" {
		var tenant models.Tenant
		if err := h.db.WithContext(c.Context()).Where("slug = ?", body.Tenant).First(&tenant).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Email ou mot de passe invalide"})
		}
		query = query.Where("tenant_id = ?", tenant.ID)
	}

	var candidates []models.User
	query.Order("id").Find(&candidates)

	var user *models.User
	for i := range candidates {
		if utils.CheckPassword(candidates[i].Password, body.Password) {
			user = &candidates[i]
			break
		}
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Email ou mot de passe invalide"})
	}

	token, err := h.createToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de générer le token"})
	}
	return c.JSON(fiber.Map{"token": token})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	resp := fiber.Map{
		"user": fiber.Map{
			"id":    tctx.User.ID,
			"email": tctx.User.Email,
			"name":  tctx.User.Name,
			"role":  tctx.User.Role,
		},
		"tenant": fiber.Map{
			"id":   tctx.Tenant.ID,
			"name": tctx.Tenant.Name,
			"slug": tctx.Tenant.Slug,
			"plan": tctx.Tenant.Plan,
		},
	}
	if tctx.Organization != nil {
		resp["organization"] = fiber.Map{
			"id":   tctx.Organization.ID,
			"name": tctx.Organization.Name,
		}
	}
	return c.JSON(resp)
}

func (h *AuthHandler) createToken(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
		"iss":     "stagifyai-api",
	})
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
