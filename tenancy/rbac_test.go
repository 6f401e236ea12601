package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/czarkazmx1x/stagifyai-saas/models"
)

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		actual   string
		required string
		want     bool
	}{
		{models.RoleOwner, models.RoleOwner, true},
		{models.RoleOwner, models.RoleViewer, true},
		{models.RoleAdmin, models.RoleMember, true},
		{models.RoleAdmin, models.RoleAdmin, true},
		{models.RoleMember, models.RoleAdmin, false},
		{models.RoleViewer, models.RoleAdmin, false},
		{models.RoleViewer, models.RoleMember, false},
		{models.RoleViewer, models.RoleViewer, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleSatisfies(tt.actual, tt.required),
			"RoleSatisfies(%q, %q)", tt.actual, tt.required)
	}
}

func TestRoleSatisfiesUnknownRole(t *testing.T) {
	// Rôle inconnu = capacité vide, des deux côtés.
	assert.False(t, RoleSatisfies("superuser", models.RoleViewer))
	assert.False(t, RoleSatisfies(models.RoleOwner, "superuser"))
	assert.False(t, RoleSatisfies("", models.RoleViewer))
}

func TestPlanHasFeature(t *testing.T) {
	assert.True(t, PlanHasFeature(models.TenantPlanFree, FeatureVirtualStaging))
	assert.False(t, PlanHasFeature(models.TenantPlanFree, FeatureCustomDomain))
	assert.False(t, PlanHasFeature(models.TenantPlanFree, FeatureOrganizations))

	assert.True(t, PlanHasFeature(models.TenantPlanPro, FeatureOrganizations))
	assert.False(t, PlanHasFeature(models.TenantPlanPro, FeatureCustomDomain))

	assert.True(t, PlanHasFeature(models.TenantPlanEnterprise, FeatureCustomDomain))
	assert.True(t, PlanHasFeature(models.TenantPlanEnterprise, FeatureVirtualStaging))
}

func TestPlanHasFeatureUnknownInputs(t *testing.T) {
	assert.False(t, PlanHasFeature("platinum", FeatureVirtualStaging))
	assert.False(t, PlanHasFeature(models.TenantPlanEnterprise, "teleportation"))
	assert.False(t, PlanHasFeature("", ""))
}
