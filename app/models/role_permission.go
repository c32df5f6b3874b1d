package models

import "time"

// Role is one of the four console roles
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleBusinessOwner Role = "business_owner"
	RoleAdminStaff    Role = "admin_staff"
	RoleGuest         Role = "guest"
)

// Roles lists every role
var Roles = []Role{RoleSuperAdmin, RoleBusinessOwner, RoleAdminStaff, RoleGuest}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// RolePermission grants one permission token to a role
type RolePermission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Role       Role      `gorm:"type:varchar(32);not null;index:ux_role_permissions,unique,priority:1" json:"role"`
	Permission string    `gorm:"type:varchar(64);not null;index:ux_role_permissions,unique,priority:2" json:"permission"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
