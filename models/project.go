package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProjectPending    = "pending"
	ProjectProcessing = "processing"
	ProjectCompleted  = "completed"
	ProjectFailed     = "failed"
)

// Styles d'ameublement proposés au moment de la génération.
var StagingStyles = []string{
	"modern",
	"scandinavian",
	"industrial",
	"bohemian",
	"minimalist",
	"traditional",
}

func IsValidStyle(style string) bool {
	for _, s := range StagingStyles {
		if s == style {
			return true
		}
	}
	return false
}

// StagingProject : un projet de home staging virtuel (photo d'origine +
// photo meublée générée). Toujours rattaché à un tenant et un utilisateur.
type StagingProject struct {
	gorm.Model
	TenantID       uint              `gorm:"not null;index" json:"tenant_id"`
	UserID         uint              `gorm:"not null;index" json:"user_id"`
	OrganizationID *uint             `gorm:"index" json:"organization_id"`
	Name           string            `json:"name"`
	RoomType       string            `json:"room_type"`
	Style          string            `json:"style"`
	Status         string            `json:"status"`
	OriginalURL    string            `json:"original_url"`
	StagedURL      string            `json:"staged_url"`
	Metadata       datatypes.JSONMap `json:"metadata"`

	Tenant Tenant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
