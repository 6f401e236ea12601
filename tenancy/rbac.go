package tenancy

import "github.com/czarkazmx1x/stagifyai-saas/models"

// Hiérarchie totale des rôles. Un rôle inconnu n'a pas de rang et ne
// satisfait rien (refus par défaut).
var roleRanks = map[string]int{
	models.RoleViewer: 0,
	models.RoleMember: 1,
	models.RoleAdmin:  2,
	models.RoleOwner:  3,
}

// Fonctionnalités par offre. Chaque offre porte son propre ensemble complet :
// l'évaluation est une appartenance explicite, jamais une inclusion déduite
// entre offres.
var planFeatures = map[string]map[string]bool{
	models.TenantPlanFree: {
		FeatureVirtualStaging: true,
		FeatureProjectHistory: true,
	},
	models.TenantPlanPro: {
		FeatureVirtualStaging:     true,
		FeatureProjectHistory:     true,
		FeatureBulkStaging:        true,
		FeaturePriorityProcessing: true,
		FeatureOrganizations:      true,
		FeatureAPIAccess:          true,
	},
	models.TenantPlanEnterprise: {
		FeatureVirtualStaging:     true,
		FeatureProjectHistory:     true,
		FeatureBulkStaging:        true,
		FeaturePriorityProcessing: true,
		FeatureOrganizations:      true,
		FeatureAPIAccess:          true,
		FeatureCustomDomain:       true,
		FeatureSSO:                true,
	},
}

const (
	FeatureVirtualStaging     = "virtual_staging"
	FeatureProjectHistory     = "project_history"
	FeatureBulkStaging        = "bulk_staging"
	FeaturePriorityProcessing = "priority_processing"
	FeatureOrganizations      = "organizations"
	FeatureAPIAccess          = "api_access"
	FeatureCustomDomain       = "custom_domain"
	FeatureSSO                = "sso"
)

// RoleSatisfies : vrai ssi le rang du rôle effectif est >= au rang requis.
func RoleSatisfies(actual, required string) bool {
	actualRank, ok := roleRanks[actual]
	if !ok {
		return false
	}
	requiredRank, ok := roleRanks[required]
	if !ok {
		return false
	}
	return actualRank >= requiredRank
}

// PlanHasFeature : appartenance explicite au set de l'offre. Offre inconnue
// = ensemble vide.
func PlanHasFeature(plan, feature string) bool {
	features, ok := planFeatures[plan]
	if !ok {
		return false
	}
	return features[feature]
}
