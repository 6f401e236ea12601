package tenancy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czarkazmx1x/stagifyai-saas/models"
)

func TestRecordAndCurrentUsage(t *testing.T) {
	db := setupDB(t)
	meter := NewMeter(db, nil)

	tenant := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusActive)
	ctx := context.Background()

	require.NoError(t, meter.RecordUsage(ctx, tenant.ID, models.ResourceStaging, 1))
	require.NoError(t, meter.RecordUsage(ctx, tenant.ID, models.ResourceStaging, 2))

	total, err := meter.CurrentUsage(ctx, tenant.ID, models.ResourceStaging, models.PeriodMonthly)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestCurrentUsageIgnoresOtherPeriods(t *testing.T) {
	db := setupDB(t)
	meter := NewMeter(db, nil)

	tenant := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusActive)
	ctx := context.Background()

	// Un événement du mois dernier ne compte pas dans la fenêtre courante.
	meter.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, meter.RecordUsage(ctx, tenant.ID, models.ResourceStaging, 5))

	meter.now = func() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, meter.RecordUsage(ctx, tenant.ID, models.ResourceStaging, 1))

	total, err := meter.CurrentUsage(ctx, tenant.ID, models.ResourceStaging, models.PeriodMonthly)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCurrentUsageDailyWindow(t *testing.T) {
	db := setupDB(t)
	meter := NewMeter(db, nil)

	tenant := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusActive)
	ctx := context.Background()

	meter.now = func() time.Time { return time.Date(2025, 4, 1, 23, 59, 0, 0, time.UTC) }
	require.NoError(t, meter.RecordUsage(ctx, tenant.ID, models.ResourceAPICall, 7))

	meter.now = func() time.Time { return time.Date(2025, 4, 2, 0, 1, 0, 0, time.UTC) }
	total, err := meter.CurrentUsage(ctx, tenant.ID, models.ResourceAPICall, models.PeriodDaily)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestCheckQuotaMonotonicity(t *testing.T) {
	db := setupDB(t)
	meter := NewMeter(db, nil)

	tenant := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusActive)
	ctx := context.Background()

	before, err := meter.CheckQuota(ctx, tenant.ID, tenant.Plan, models.ResourceStaging)
	require.NoError(t, err)

	require.NoError(t, meter.RecordUsage(ctx, tenant.ID, models.ResourceStaging, 1))

	after, err := meter.CheckQuota(ctx, tenant.ID, tenant.Plan, models.ResourceStaging)
	require.NoError(t, err)

	assert.Equal(t, before.Used+1, after.Used)
	assert.Equal(t, before.Remaining-1, after.Remaining)
	assert.Equal(t, before.Limit, after.Limit)
}

func TestCheckQuotaRemainingClampedAtZero(t *testing.T) {
	db := setupDB(t)
	meter := NewMeter(db, PlanLimits{
		models.TenantPlanFree: {
			models.ResourceStaging: {Amount: 2, Period: models.PeriodMonthly},
		},
	})

	tenant := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusActive)
	ctx := context.Background()

	require.NoError(t, meter.RecordUsage(ctx, tenant.ID, models.ResourceStaging, 5))

	status, err := meter.CheckQuota(ctx, tenant.ID, tenant.Plan, models.ResourceStaging)
	require.NoError(t, err)
	assert.Equal(t, int64(5), status.Used)
	assert.Equal(t, int64(2), status.Limit)
	assert.Equal(t, int64(0), status.Remaining)
}

func TestCheckQuotaUnconfiguredResourceDenies(t *testing.T) {
	db := setupDB(t)
	meter := NewMeter(db, nil)

	tenant := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusActive)

	// Ressource sans plafond configuré : limite 0, jamais illimité.
	status, err := meter.CheckQuota(context.Background(), tenant.ID, tenant.Plan, "video_tours")
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Limit)
	assert.Equal(t, int64(0), status.Remaining)
}

func TestCheckQuotaUnknownPlanDenies(t *testing.T) {
	db := setupDB(t)
	meter := NewMeter(db, nil)

	tenant := seedTenant(t, db, "acme", "platinum", models.StatusActive)

	status, err := meter.CheckQuota(context.Background(), tenant.ID, tenant.Plan, models.ResourceStaging)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Limit)
	assert.Equal(t, int64(0), status.Remaining)
}

func TestUsageIsolationBetweenTenants(t *testing.T) {
	db := setupDB(t)
	meter := NewMeter(db, nil)

	acme := seedTenant(t, db, "acme", models.TenantPlanFree, models.StatusActive)
	globex := seedTenant(t, db, "globex", models.TenantPlanFree, models.StatusActive)
	ctx := context.Background()

	require.NoError(t, meter.RecordUsage(ctx, acme.ID, models.ResourceStaging, 4))

	total, err := meter.CurrentUsage(ctx, globex.ID, models.ResourceStaging, models.PeriodMonthly)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
