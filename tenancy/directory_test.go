package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czarkazmx1x/stagifyai-saas/models"
)

func TestResolveContext(t *testing.T) {
	db := setupDB(t)
	directory := NewDirectory(db)

	tenant := seedTenant(t, db, "acme", models.TenantPlanPro, models.StatusActive)
	user := seedUser(t, db, tenant, "jean@acme.fr", models.RoleAdmin, models.StatusActive)

	tctx, err := directory.ResolveContext(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, tctx.Tenant.ID)
	assert.Equal(t, user.ID, tctx.User.ID)
	assert.Equal(t, models.RoleAdmin, tctx.User.Role)
	assert.Nil(t, tctx.Organization)
}

func TestResolveContextWithOrganization(t *testing.T) {
	db := setupDB(t)
	directory := NewDirectory(db)

	tenant := seedTenant(t, db, "acme", models.TenantPlanPro, models.StatusActive)
	org := models.Organization{TenantID: tenant.ID, Name: "Agence Lyon", Slug: "agence-lyon"}
	require.NoError(t, db.Create(&org).Error)

	user := seedUser(t, db, tenant, "jean@acme.fr", models.RoleMember, models.StatusActive)
	require.NoError(t, db.Model(&user).Update("organization_id", org.ID).Error)

	tctx, err := directory.ResolveContext(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, tctx.Organization)
	assert.Equal(t, org.ID, tctx.Organization.ID)
}

func TestResolveContextUnknownIdentity(t *testing.T) {
	db := setupDB(t)
	directory := NewDirectory(db)

	_, err := directory.ResolveContext(context.Background(), 9999)
	rej := AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNoTenantContext, rej.Reason)
}

func TestResolveContextSuspendedTenant(t *testing.T) {
	db := setupDB(t)
	directory := NewDirectory(db)

	// Utilisateur actif sous tenant suspendu : refus immédiat.
	tenant := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusSuspended)
	user := seedUser(t, db, tenant, "jean@acme.fr", models.RoleOwner, models.StatusActive)

	_, err := directory.ResolveContext(context.Background(), user.ID)
	rej := AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNoTenantContext, rej.Reason)
}

func TestResolveContextInactiveUser(t *testing.T) {
	db := setupDB(t)
	directory := NewDirectory(db)

	tenant := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusActive)
	user := seedUser(t, db, tenant, "jean@acme.fr", models.RoleOwner, models.StatusDisabled)

	_, err := directory.ResolveContext(context.Background(), user.ID)
	rej := AsRejection(err)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNoTenantContext, rej.Reason)
}

func TestResolveContextIdempotent(t *testing.T) {
	db := setupDB(t)
	directory := NewDirectory(db)

	tenant := seedTenant(t, db, "acme", models.TenantPlanEnterprise, models.StatusActive)
	user := seedUser(t, db, tenant, "jean@acme.fr", models.RoleMember, models.StatusActive)

	first, err := directory.ResolveContext(context.Background(), user.ID)
	require.NoError(t, err)
	second, err := directory.ResolveContext(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Tenant.ID, second.Tenant.ID)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, first.User.Role, second.User.Role)
	assert.Equal(t, first.Tenant.Plan, second.Tenant.Plan)
}
