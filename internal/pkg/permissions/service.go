package permissions

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
)

// Service edits the permission matrix
type Service struct {
	store repository.Store
	trail *audit.Trail
}

// NewService creates a permission service
func NewService(store repository.Store, trail *audit.Trail) *Service {
	return &Service{store: store, trail: trail}
}

// Matrix returns the current snapshot
func (s *Service) Matrix(ctx context.Context) (*Matrix, error) {
	var m *Matrix
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		m, err = Load(repos)
		return err
	})
	return m, err
}

// CanPerform evaluates role against the current snapshot
func (s *Service) CanPerform(ctx context.Context, role models.Role, token string) (bool, error) {
	if role == models.RoleSuperAdmin {
		return true, nil
	}
	m, err := s.Matrix(ctx)
	if err != nil {
		return false, err
	}
	return m.CanPerform(role, token), nil
}

// Grant adds token to role
func (s *Service) Grant(ctx context.Context, actor models.Actor, role models.Role, token string) (*Matrix, error) {
	return s.edit(ctx, actor, role, token, true)
}

// Revoke removes token from role
func (s *Service) Revoke(ctx context.Context, actor models.Actor, role models.Role, token string) (*Matrix, error) {
	return s.edit(ctx, actor, role, token, false)
}

func (s *Service) edit(ctx context.Context, actor models.Actor, role models.Role, token string, grant bool) (*Matrix, error) {
	if !role.Valid() {
		return nil, apperror.Validation("unknown role %q", role)
	}
	if !Known(token) {
		return nil, apperror.Validation("unknown permission %q", token)
	}
	if role == models.RoleSuperAdmin {
		return nil, apperror.Validation("super admin authority is fixed and cannot be edited")
	}

	verb, prep := "revoked", "from"
	if grant {
		verb, prep = "granted", "to"
	}

	var m *Matrix
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := Authorize(repos, actor, PermissionsManage); err != nil {
			return err
		}

		var err error
		if grant {
			err = repos.Permission.Grant(role, token)
		} else {
			err = repos.Permission.Revoke(role, token)
		}
		if err != nil {
			return fmt.Errorf("failed to update permission matrix: %w", err)
		}
		if _, err := repos.ConfigVersion.Bump(models.ConfigPermissions); err != nil {
			return fmt.Errorf("failed to bump permission version: %w", err)
		}

		action := fmt.Sprintf("%s %s %s role %s", verb, token, prep, role)
		if _, err := s.trail.Record(repos, actor, action, audit.Named(models.TargetRole, string(role)), models.AuditSecurity); err != nil {
			return err
		}

		m, err = Load(repos)
		return err
	})
	if err != nil {
		log.Warnf("[Permissions] %s %s for %s rejected: %v", verb, token, role, err)
		return nil, err
	}

	log.Infof("[Permissions] %s %s %s %s by %s (version %d)", verb, token, prep, role, actor.Name, m.Version)
	return m, nil
}
