package permissions

import (
	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
)

// RoleCases holds one branch per role. Every field must be set.
type RoleCases[T any] struct {
	SuperAdmin    func() T
	BusinessOwner func() T
	AdminStaff    func() T
	Guest         func() T
}

func (c RoleCases[T]) complete() bool {
	return c.SuperAdmin != nil && c.BusinessOwner != nil && c.AdminStaff != nil && c.Guest != nil
}

// Dispatch runs the branch for role. Incomplete cases are rejected for every
// role, not just the missing one, so a forgotten branch fails on first use.
func Dispatch[T any](role models.Role, cases RoleCases[T]) (T, error) {
	var zero T
	if !cases.complete() {
		return zero, apperror.Validation("role dispatch is missing a branch")
	}

	switch role {
	case models.RoleSuperAdmin:
		return cases.SuperAdmin(), nil
	case models.RoleBusinessOwner:
		return cases.BusinessOwner(), nil
	case models.RoleAdminStaff:
		return cases.AdminStaff(), nil
	case models.RoleGuest:
		return cases.Guest(), nil
	default:
		return zero, apperror.Validation("unknown role %q", role)
	}
}

// Landing sections shown after sign-in
const (
	LandingPlatform  = "platform_console"
	LandingOwner     = "owner_dashboard"
	LandingFrontDesk = "front_desk"
	LandingGuest     = "guest_portal"
)

// LandingSection picks the dashboard for a role
func LandingSection(role models.Role) (string, error) {
	return Dispatch(role, RoleCases[string]{
		SuperAdmin:    func() string { return LandingPlatform },
		BusinessOwner: func() string { return LandingOwner },
		AdminStaff:    func() string { return LandingFrontDesk },
		Guest:         func() string { return LandingGuest },
	})
}
