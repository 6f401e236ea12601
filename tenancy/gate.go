package tenancy

import "context"

// Policy : exigences d'une opération. RequiredRole est toujours renseigné ;
// Feature et Resource sont optionnels (opération non gatée par l'offre,
// opération non mesurée).
type Policy struct {
	RequiredRole string
	Feature      string
	Resource     string
}

// Gate : point de composition unique invoqué avant chaque opération scopée
// tenant. Enchaîne résolution de contexte, contrôle de rôle, contrôle
// d'offre puis contrôle de quota, et s'arrête au premier refus applicable.
type Gate struct {
	directory *Directory
	meter     *Meter
}

func NewGate(directory *Directory, meter *Meter) *Gate {
	return &Gate{directory: directory, meter: meter}
}

// Admit déroule la machine : non authentifié → contexte résolu → rôle
// vérifié → (offre) → (quota) → admis. Le refus remonte inchangé avec sa
// raison. Le contexte résolu est rattaché à l'opération aval, qui filtre
// ensuite toute donnée par égalité de tenant_id.
func (g *Gate) Admit(ctx context.Context, userID uint, policy Policy) (*Context, error) {
	if userID == 0 {
		return nil, reject(ReasonUnauthenticated, "identité absente")
	}

	tctx, err := g.directory.ResolveContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !RoleSatisfies(tctx.User.Role, policy.RequiredRole) {
		return nil, reject(ReasonInsufficientRole, "rôle "+policy.RequiredRole+" requis")
	}

	if policy.Feature != "" && !PlanHasFeature(tctx.Tenant.Plan, policy.Feature) {
		return nil, reject(ReasonPlanFeatureDenied, "fonctionnalité "+policy.Feature+" non incluse dans l'offre "+tctx.Tenant.Plan)
	}

	if policy.Resource != "" {
		status, err := g.meter.CheckQuota(ctx, tctx.Tenant.ID, tctx.Tenant.Plan, policy.Resource)
		if err != nil {
			return nil, err
		}
		if status.Remaining <= 0 {
			return nil, reject(ReasonQuotaExceeded, "quota "+policy.Resource+" atteint")
		}
		tctx.Quota = &status
	}

	return tctx, nil
}

// Meter expose le compteur pour que l'appelant enregistre la consommation
// une fois l'opération mesurée effectivement terminée.
func (g *Gate) Meter() *Meter {
	return g.meter
}
