package models

import "time"

const (
	ResourceStaging      = "staging"
	ResourceStorageBytes = "storage_bytes"
	ResourceAPICall      = "api_call"

	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
)

// ResourceUsageEvent : journal de consommation, en écriture seule.
// Jamais modifié ni supprimé ; l'agrégation se fait par somme sur la
// fenêtre de période active.
type ResourceUsageEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"not null;index:idx_usage_tenant_resource,priority:1" json:"tenant_id"`
	Resource   string    `gorm:"not null;index:idx_usage_tenant_resource,priority:2" json:"resource"`
	Amount     int64     `gorm:"not null" json:"amount"`
	Period     string    `json:"period"`
	RecordedAt time.Time `gorm:"not null;index" json:"recorded_at"`
}
