package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TenantPlanFree       = "free"
	TenantPlanPro        = "pro"
	TenantPlanEnterprise = "enterprise"

	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusDisabled  = "disabled"
)

type Tenant struct {
	gorm.Model
	Name         string            `json:"name"`
	Slug         string            `gorm:"uniqueIndex" json:"slug"`
	CustomDomain *string           `gorm:"uniqueIndex" json:"custom_domain"`
	Plan         string            `json:"plan"`
	Status       string            `json:"status"`
	Settings     datatypes.JSONMap `json:"settings"`
}

// Organization : sous-groupe d'utilisateurs au sein d'un tenant (équipes B2B).
type Organization struct {
	gorm.Model
	TenantID uint   `gorm:"not null;index" json:"tenant_id"`
	Name     string `json:"name"`
	Slug     string `gorm:"uniqueIndex" json:"slug"`

	Tenant Tenant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TenantSetting : paire clé/valeur scopée tenant, unique par (tenant, clé).
type TenantSetting struct {
	gorm.Model
	TenantID uint   `gorm:"not null;uniqueIndex:ux_tenant_settings_key,priority:1" json:"tenant_id"`
	Key      string `gorm:"not null;uniqueIndex:ux_tenant_settings_key,priority:2" json:"key"`
	Value    string `json:"value"`

	Tenant Tenant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
