package staging

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	genclient "github.com/czarkazmx1x/stagifyai-saas/integrations/staging"
	"github.com/czarkazmx1x/stagifyai-saas/models"
	"github.com/czarkazmx1x/stagifyai-saas/tenancy"
)

// Service orchestre une génération de home staging : transitions de statut
// du projet, appel du fournisseur externe, enregistrement de la consommation
// seulement après confirmation de la génération.
type Service struct {
	db     *gorm.DB
	client genclient.Generator
	meter  *tenancy.Meter
	log    *zap.Logger
}

func NewService(db *gorm.DB, client genclient.Generator, meter *tenancy.Meter, log *zap.Logger) *Service {
	return &Service{db: db, client: client, meter: meter, log: log}
}

// Generate fait passer le projet en processing, appelle le fournisseur puis
// termine en completed ou failed. Aucun événement d'usage n'est écrit pour
// une génération non aboutie (échec, timeout ou annulation amont).
func (s *Service) Generate(ctx context.Context, tctx *tenancy.Context, projectID uint) (*models.StagingProject, error) {
	var project models.StagingProject
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tctx.Tenant.ID).
		First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, tenancy.AsRejection(err)
	}

	if project.Status != models.ProjectPending {
		return nil, &tenancy.Rejection{
			Reason: tenancy.ReasonUpstreamFailure,
			Detail: "projet déjà traité (statut " + project.Status + ")",
		}
	}
	if project.OriginalURL == "" {
		return nil, &tenancy.Rejection{
			Reason: tenancy.ReasonUpstreamFailure,
			Detail: "aucune photo d'origine sur ce projet",
		}
	}

	if err := s.setStatus(ctx, &project, models.ProjectProcessing); err != nil {
		return nil, err
	}

	result, genErr := s.client.GenerateStaging(ctx, genclient.GenerationRequest{
		SourceURL: project.OriginalURL,
		Style:     project.Style,
		RoomType:  project.RoomType,
	})
	if genErr != nil {
		s.log.Warn("génération échouée",
			zap.Uint("tenant_id", tctx.Tenant.ID),
			zap.Uint("project_id", project.ID),
			zap.Error(genErr),
		)
		if err := s.setStatus(ctx, &project, models.ProjectFailed); err != nil {
			return nil, err
		}
		return nil, &tenancy.Rejection{Reason: tenancy.ReasonUpstreamFailure, Detail: genErr.Error()}
	}

	project.StagedURL = result.ImageURL
	project.Status = models.ProjectCompleted
	if err := s.db.WithContext(ctx).Save(&project).Error; err != nil {
		return nil, tenancy.AsRejection(err)
	}

	// Consommation comptée maintenant que la génération est confirmée.
	if err := s.meter.RecordUsage(ctx, tctx.Tenant.ID, models.ResourceStaging, 1); err != nil {
		return nil, err
	}

	s.log.Info("génération terminée",
		zap.Uint("tenant_id", tctx.Tenant.ID),
		zap.Uint("project_id", project.ID),
		zap.String("style", project.Style),
	)
	return &project, nil
}

// Retry remet un projet échoué en pending et efface l'image générée. Seule
// transition arrière autorisée du cycle de vie.
func (s *Service) Retry(ctx context.Context, tctx *tenancy.Context, projectID uint) (*models.StagingProject, error) {
	var project models.StagingProject
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tctx.Tenant.ID).
		First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, tenancy.AsRejection(err)
	}

	if project.Status != models.ProjectFailed {
		return nil, &tenancy.Rejection{
			Reason: tenancy.ReasonUpstreamFailure,
			Detail: "seul un projet échoué peut être relancé",
		}
	}

	project.Status = models.ProjectPending
	project.StagedURL = ""
	if err := s.db.WithContext(ctx).Save(&project).Error; err != nil {
		return nil, tenancy.AsRejection(err)
	}
	return &project, nil
}

func (s *Service) setStatus(ctx context.Context, project *models.StagingProject, status string) error {
	project.Status = status
	if err := s.db.WithContext(ctx).Model(project).Update("status", status).Error; err != nil {
		return tenancy.AsRejection(err)
	}
	return nil
}
