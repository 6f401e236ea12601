package routes

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/czarkazmx1x/stagifyai-saas/config"
	"github.com/czarkazmx1x/stagifyai-saas/middleware"
	"github.com/czarkazmx1x/stagifyai-saas/models"
	stagingsvc "github.com/czarkazmx1x/stagifyai-saas/services/staging"
	"github.com/czarkazmx1x/stagifyai-saas/storage"
	"github.com/czarkazmx1x/stagifyai-saas/tenancy"
	"github.com/czarkazmx1x/stagifyai-saas/utils"
)

const maxPhotoBytes = 15 << 20

type ProjectsHandler struct {
	db    *gorm.DB
	store storage.ObjectStorage
	svc   *stagingsvc.Service
	meter *tenancy.Meter
}

func NewProjectsHandler(db *gorm.DB, store storage.ObjectStorage, svc *stagingsvc.Service, meter *tenancy.Meter) *ProjectsHandler {
	return &ProjectsHandler{db: db, store: store, svc: svc, meter: meter}
}

func SetupProjectRoutes(app *fiber.App, cfg config.Config, gate *tenancy.Gate, h *ProjectsHandler) {
	projects := app.Group("/api/projects", middleware.JWT(cfg.JWTSecret))

	viewer := middleware.Guard(gate, tenancy.Policy{RequiredRole: models.RoleViewer})
	member := middleware.Guard(gate, tenancy.Policy{RequiredRole: models.RoleMember})

	projects.Get("/", viewer, h.List)
	projects.Get("/:id", viewer, h.Get)
	projects.Post("/", member, h.Create)
	projects.Post("/:id/retry", member, h.Retry)

	// L'upload consomme du stockage mesuré.
	projects.Post("/:id/photo", middleware.Guard(gate, tenancy.Policy{
		RequiredRole: models.RoleMember,
		Resource:     models.ResourceStorageBytes,
	}), h.UploadPhoto)

	// La génération consomme du quota et exige la fonctionnalité de l'offre.
	projects.Post("/:id/stage", middleware.Guard(gate, tenancy.Policy{
		RequiredRole: models.RoleMember,
		Feature:      tenancy.FeatureVirtualStaging,
		Resource:     models.ResourceStaging,
	}), h.Stage)
}

type createProjectPayload struct {
	Name     string            `json:"name"`
	RoomType string            `json:"room_type"`
	Style    string            `json:"style"`
	Metadata map[string]string `json:"metadata"`
}

func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	var body createProjectPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
	}
	if !models.IsValidStyle(body.Style) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Style inconnu", "styles": models.StagingStyles})
	}

	metadata := datatypes.JSONMap{}
	for k, v := range body.Metadata {
		metadata[k] = v
	}

	var orgID *uint
	if tctx.Organization != nil {
		id := tctx.Organization.ID
		orgID = &id
	}

	project := models.StagingProject{
		TenantID:       tctx.Tenant.ID,
		UserID:         tctx.User.ID,
		OrganizationID: orgID,
		Name:           body.Name,
		RoomType:       body.RoomType,
		Style:          body.Style,
		Status:         models.ProjectPending,
		Metadata:       metadata,
	}
	if err := h.db.WithContext(c.Context()).Create(&project).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur création du projet"})
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	var projects []models.StagingProject
	err := h.db.WithContext(c.Context()).
		Where("tenant_id = ?", tctx.Tenant.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&projects).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lors de la récupération des projets"})
	}
	return c.JSON(fiber.Map{"projects": projects})
}

func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	project, err := h.findProject(c, tctx)
	if err != nil {
		return renderServiceError(c, err)
	}
	return c.JSON(project)
}

// UploadPhoto reçoit la photo de la pièce vide et la dépose dans le stockage
// objet sous une clé "rooms/<horodatage>-<discriminant>.<ext>".
func (h *ProjectsHandler) UploadPhoto(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	project, err := h.findProject(c, tctx)
	if err != nil {
		return renderServiceError(c, err)
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo requise"})
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxPhotoBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Taille de fichier invalide"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de lire le fichier"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de lire le fichier"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !utils.IsAllowedImageMime(contentType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Type de fichier non supporté", "details": contentType})
	}

	key := storage.BuildKey("rooms", utils.ExtForMime(contentType))
	url, err := h.store.Put(c.Context(), key, contentType, data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de sauvegarder la photo"})
	}

	project.OriginalURL = url
	if project.Metadata == nil {
		project.Metadata = datatypes.JSONMap{}
	}
	project.Metadata["original_filename"] = utils.SanitizeFilename(fileHeader.Filename)
	if err := h.db.WithContext(c.Context()).Save(project).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur enregistrement du projet"})
	}

	// Octets comptés une fois le fichier effectivement déposé.
	if err := h.meter.RecordUsage(c.Context(), tctx.Tenant.ID, models.ResourceStorageBytes, int64(len(data))); err != nil {
		return renderServiceError(c, err)
	}
	return c.JSON(project)
}

// Stage lance la génération chez le fournisseur externe. Le Guard a déjà
// vérifié rôle, offre et quota ; le service n'enregistre la consommation
// qu'après confirmation.
func (h *ProjectsHandler) Stage(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	projectID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}

	project, genErr := h.svc.Generate(c.Context(), tctx, projectID)
	if genErr != nil {
		return renderServiceError(c, genErr)
	}
	return c.JSON(project)
}

func (h *ProjectsHandler) Retry(c *fiber.Ctx) error {
	tctx := middleware.TenantContext(c)

	projectID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant invalide"})
	}

	project, svcErr := h.svc.Retry(c.Context(), tctx, projectID)
	if svcErr != nil {
		return renderServiceError(c, svcErr)
	}
	return c.JSON(project)
}

func (h *ProjectsHandler) findProject(c *fiber.Ctx, tctx *tenancy.Context) (*models.StagingProject, error) {
	projectID, err := parseID(c)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var project models.StagingProject
	err = h.db.WithContext(c.Context()).
		Where("tenant_id = ?", tctx.Tenant.ID).
		First(&project, projectID).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func renderServiceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Projet introuvable"})
	}
	rej := tenancy.AsRejection(err)
	status := fiber.StatusInternalServerError
	switch rej.Reason {
	case tenancy.ReasonUpstreamFailure:
		status = fiber.StatusBadGateway
	case tenancy.ReasonQuotaExceeded:
		status = fiber.StatusTooManyRequests
	}
	return c.Status(status).JSON(fiber.Map{"error": rej.Detail, "reason": rej.Reason})
}
