package permissions

import (
	"fmt"
	"sort"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
)

// Matrix is an immutable snapshot of the role permission configuration
type Matrix struct {
	Version int64
	grants  map[models.Role]map[string]struct{}
}

// NewMatrix builds a snapshot from stored rows
func NewMatrix(version int64, rows []models.RolePermission) *Matrix {
	m := &Matrix{Version: version, grants: make(map[models.Role]map[string]struct{})}
	for _, row := range rows {
		set, ok := m.grants[row.Role]
		if !ok {
			set = make(map[string]struct{})
			m.grants[row.Role] = set
		}
		set[row.Permission] = struct{}{}
	}
	return m
}

// FromMap builds a snapshot from a literal role -> tokens map, for fixtures and defaults
func FromMap(version int64, grants map[models.Role][]string) *Matrix {
	var rows []models.RolePermission
	for role, tokens := range grants {
		for _, token := range tokens {
			rows = append(rows, models.RolePermission{Role: role, Permission: token})
		}
	}
	return NewMatrix(version, rows)
}

// CanPerform reports whether role holds token. SuperAdmin always does,
// whatever the stored rows say.
func (m *Matrix) CanPerform(role models.Role, token string) bool {
	if role == models.RoleSuperAdmin {
		return true
	}
	if m == nil {
		return false
	}
	_, ok := m.grants[role][token]
	return ok
}

// Tokens returns the stored tokens of role, sorted
func (m *Matrix) Tokens(role models.Role) []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.grants[role]))
	for token := range m.grants[role] {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// Require returns PermissionDenied unless actor's role holds token
func (m *Matrix) Require(actor models.Actor, token string) error {
	if m.CanPerform(actor.Role, token) {
		return nil
	}
	return apperror.PermissionDenied("role %s lacks %s", actor.Role, token)
}

// Load reads the current matrix through repos
func Load(repos *repository.Repositories) (*Matrix, error) {
	version, err := repos.ConfigVersion.Get(models.ConfigPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to read permission version: %w", err)
	}
	rows, err := repos.Permission.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}
	return NewMatrix(version, rows), nil
}

// Authorize loads the matrix and checks actor against token inside the caller's transaction
func Authorize(repos *repository.Repositories, actor models.Actor, token string) error {
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if !actor.Role.Valid() {
		return apperror.PermissionDenied("unknown role %q", actor.Role)
	}
	m, err := Load(repos)
	if err != nil {
		return err
	}
	return m.Require(actor, token)
}

// InTenantScope reports whether actor may touch records of tenantID.
// Platform operators reach every tenant; owners and staff only their own.
// Guests are scoped per booking by the caller.
func InTenantScope(actor models.Actor, tenantID uint) bool {
	switch actor.Role {
	case models.RoleSuperAdmin, models.RoleGuest:
		return true
	case models.RoleBusinessOwner, models.RoleAdminStaff:
		return actor.TenantID != 0 && actor.TenantID == tenantID
	default:
		return false
	}
}

// RequireTenantScope returns PermissionDenied when actor is outside tenantID
func RequireTenantScope(actor models.Actor, tenantID uint) error {
	if InTenantScope(actor, tenantID) {
		return nil
	}
	return apperror.PermissionDenied("%s %d cannot act on tenant %d", actor.Role, actor.ID, tenantID)
}
