package tenancy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/czarkazmx1x/stagifyai-saas/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.Organization{},
		&models.User{},
		&models.StagingProject{},
		&models.ResourceUsageEvent{},
		&models.TenantSetting{},
	))
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, slug, plan, status string) models.Tenant {
	t.Helper()

	tenant := models.Tenant{
		Name:   slug,
		Slug:   slug,
		Plan:   plan,
		Status: status,
	}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func seedUser(t *testing.T, db *gorm.DB, tenant models.Tenant, email, role, status string) models.User {
	t.Helper()

	user := models.User{
		TenantID: tenant.ID,
		Email:    email,
		Role:     role,
		Status:   status,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
