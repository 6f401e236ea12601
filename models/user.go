package models

import "gorm.io/gorm"

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

type User struct {
	gorm.Model
	TenantID       uint   `gorm:"not null;uniqueIndex:ux_users_tenant_email,priority:1" json:"tenant_id"`
	OrganizationID *uint  `gorm:"index" json:"organization_id"`
	Email          string `gorm:"not null;uniqueIndex:ux_users_tenant_email,priority:2" json:"email"`
	Name           string `json:"name"`
	Password       string `json:"-"`
	Role           string `json:"role"`
	Status         string `json:"status"`

	Tenant       Tenant        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Organization *Organization `json:"-"`
}
