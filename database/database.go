package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/czarkazmx1x/stagifyai-saas/models"
)

// Connect ouvre la base et applique les migrations. Postgres en production,
// sqlite en repli local quand DATABASE_URL est vide.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	case dsn != "":
		// DSN postgres supposé même sans préfixe de schéma
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open("stagify.db")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.Organization{},
		&models.User{},
		&models.StagingProject{},
		&models.ResourceUsageEvent{},
		&models.TenantSetting{},
	)
}
