// Package accounts manages console user records. Credentials live elsewhere.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

// Service runs account administration commands
type Service struct {
	store repository.Store
	trail *audit.Trail
}

// NewService creates an account service
func NewService(store repository.Store, trail *audit.Trail) *Service {
	return &Service{store: store, trail: trail}
}

// NewAccount describes a user to create
type NewAccount struct {
	Name     string
	Email    string
	Role     models.Role
	TenantID uint
}

// Create adds a user. Only platform operators create other operators.
func (s *Service) Create(ctx context.Context, actor models.Actor, req NewAccount) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, apperror.Validation("unknown role %q", req.Role)
	}
	if req.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return nil, apperror.PermissionDenied("only platform operators create operators")
	}

	user, err := models.CreateUser(strings.TrimSpace(req.Name), strings.ToLower(strings.TrimSpace(req.Email)), req.Role, req.TenantID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindValidation, "invalid account")
	}

	err = s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := permissions.Authorize(repos, actor, permissions.UsersManage); err != nil {
			return err
		}
		if err := permissions.RequireTenantScope(actor, user.TenantID); err != nil {
			return err
		}
		if user.TenantID != 0 {
			if _, err := repos.Tenant.GetByID(user.TenantID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperror.NotFound("tenant %d not found", user.TenantID)
				}
				return fmt.Errorf("failed to load tenant: %w", err)
			}
		}

		if _, err := repos.User.GetByEmail(user.Email); err == nil {
			return apperror.Validation("email %s is already registered", user.Email)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		if err := repos.User.Create(user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		action := fmt.Sprintf("created %s account for %s", user.Role, user.Name)
		_, err := s.trail.Record(repos, actor, action, audit.Ref(models.TargetUser, user.ID), models.AuditManagement)
		return err
	})
	if err != nil {
		log.Warnf("[Accounts] creating %s rejected: %v", req.Email, err)
		return nil, err
	}

	log.Infof("[Accounts] user %d (%s) created by %s", user.ID, user.Role, actor.Name)
	return user, nil
}

// ChangeRole assigns a new role to a user
func (s *Service) ChangeRole(ctx context.Context, actor models.Actor, userID uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperror.Validation("unknown role %q", role)
	}
	if role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return nil, apperror.PermissionDenied("only platform operators promote operators")
	}
	return s.change(ctx, actor, userID, func(u *models.User) (string, error) {
		if u.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
			return "", apperror.PermissionDenied("only platform operators demote operators")
		}
		from := u.Role
		u.Role = role
		return fmt.Sprintf("changed role of %s from %s to %s", u.Name, from, role), nil
	})
}

// SetStatus activates, deactivates or disables a user
func (s *Service) SetStatus(ctx context.Context, actor models.Actor, userID uint, status string) (*models.User, error) {
	switch status {
	case models.STATUS_ACTIVE, models.STATUS_INACTIVE, models.STATUS_DISABLED:
	default:
		return nil, apperror.Validation("unknown user status %q", status)
	}
	if userID == actor.ID {
		return nil, apperror.Validation("users cannot change their own status")
	}
	return s.change(ctx, actor, userID, func(u *models.User) (string, error) {
		from := u.Status
		u.Status = status
		return fmt.Sprintf("changed status of %s from %s to %s", u.Name, from, status), nil
	})
}

// List returns a page of users, for platform operators only
func (s *Service) List(ctx context.Context, actor models.Actor, offset, limit int) ([]models.User, error) {
	if actor.Role != models.RoleSuperAdmin {
		return nil, apperror.PermissionDenied("only platform operators list users")
	}
	var out []models.User
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		out, err = repos.User.List(offset, limit)
		return err
	})
	return out, err
}

func (s *Service) change(ctx context.Context, actor models.Actor, userID uint, apply func(u *models.User) (string, error)) (*models.User, error) {
	var out *models.User
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := permissions.Authorize(repos, actor, permissions.UsersManage); err != nil {
			return err
		}
		u, err := repos.User.GetByID(userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NotFound("user %d not found", userID)
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		if err := permissions.RequireTenantScope(actor, u.TenantID); err != nil {
			return err
		}

		action, err := apply(u)
		if err != nil {
			return err
		}
		if err := u.Validate(); err != nil {
			return apperror.Wrap(err, apperror.KindValidation, "invalid account")
		}
		if err := repos.User.Update(u); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if _, err := s.trail.Record(repos, actor, action, audit.Ref(models.TargetUser, u.ID), models.AuditManagement); err != nil {
			return err
		}

		out = u
		return nil
	})
	if err != nil {
		log.Warnf("[Accounts] change of user %d rejected: %v", userID, err)
		return nil, err
	}

	log.Infof("[Accounts] user %d updated by %s", userID, actor.Name)
	return out, nil
}
