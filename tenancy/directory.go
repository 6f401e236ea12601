package tenancy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/czarkazmx1x/stagifyai-saas/models"
)

// Context : identité résolue attachée à chaque opération admise. Tout accès
// aux données en aval doit filtrer par égalité sur Tenant.ID, rien d'autre.
type Context struct {
	Tenant       models.Tenant
	User         models.User
	Organization *models.Organization
	Quota        *QuotaStatus
}

// Directory résout une identité authentifiée vers son contexte tenant.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// ResolveContext est en lecture seule. Trois vérifications indépendantes :
// l'utilisateur existe, son tenant est actif, lui-même est actif. Une
// suspension de tenant coupe immédiatement tous ses utilisateurs, et un
// utilisateur désactivé est refusé même sous un tenant actif.
func (d *Directory) ResolveContext(ctx context.Context, userID uint) (*Context, error) {
	var user models.User
	err := d.db.WithContext(ctx).
		Preload("Tenant").
		Preload("Organization").
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(ReasonNoTenantContext, "aucun utilisateur pour cette identité")
		}
		return nil, reject(ReasonPersistence, err.Error())
	}

	if user.Tenant.Status != models.StatusActive {
		return nil, reject(ReasonNoTenantContext, "tenant inactif")
	}
	if user.Status != models.StatusActive {
		return nil, reject(ReasonNoTenantContext, "utilisateur inactif")
	}

	return &Context{
		Tenant:       user.Tenant,
		User:         user,
		Organization: user.Organization,
	}, nil
}
