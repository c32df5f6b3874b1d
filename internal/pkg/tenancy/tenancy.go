// Package tenancy administers the platform lifecycle of tenants.
package tenancy

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

var transitions = map[models.TenantStatus][]models.TenantStatus{
	models.TenantStatusPending:       {models.TenantStatusActive, models.TenantStatusRejected, models.TenantStatusInfoRequested, models.TenantStatusTerminated},
	models.TenantStatusInfoRequested: {models.TenantStatusPending, models.TenantStatusActive, models.TenantStatusRejected, models.TenantStatusTerminated},
	models.TenantStatusActive:        {models.TenantStatusSuspended, models.TenantStatusTerminated},
	models.TenantStatusSuspended:     {models.TenantStatusActive, models.TenantStatusTerminated},
	models.TenantStatusRejected:      {models.TenantStatusTerminated},
}

// CanTransition reports whether a tenant may move between two statuses
func CanTransition(from, to models.TenantStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Service runs tenant administration commands
type Service struct {
	store repository.Store
	trail *audit.Trail
}

// NewService creates a tenancy service
func NewService(store repository.Store, trail *audit.Trail) *Service {
	return &Service{store: store, trail: trail}
}

// Enrollment is a request to put a business on the platform
type Enrollment struct {
	Name     string
	Category models.Category
	Plan     models.Plan
	OwnerID  uint
}

// Enroll creates a tenant. Self-service enrollments wait for review;
// platform operators enroll tenants directly as active.
func (s *Service) Enroll(ctx context.Context, actor models.Actor, req Enrollment) (*models.Tenant, error) {
	if !req.Category.Valid() {
		return nil, apperror.Validation("unknown category %q", req.Category)
	}
	if req.Plan == "" {
		req.Plan = models.PlanBasic
	}
	if !req.Plan.Valid() {
		return nil, apperror.Validation("unknown plan %q", req.Plan)
	}

	tenant := &models.Tenant{
		Name:     strings.TrimSpace(req.Name),
		Category: req.Category,
		Plan:     req.Plan,
		Status:   models.TenantStatusPending,
		OwnerID:  req.OwnerID,
	}
	if actor.Role == models.RoleSuperAdmin {
		tenant.Status = models.TenantStatusActive
	} else {
		tenant.OwnerID = actor.ID
	}
	if err := tenant.Validate(); err != nil {
		return nil, apperror.Wrap(err, apperror.KindValidation, "invalid tenant")
	}

	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := permissions.Authorize(repos, actor, permissions.TenantEnroll); err != nil {
			return err
		}
		if err := repos.Tenant.Create(tenant); err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}
		action := fmt.Sprintf("enrolled %s (%s, %s) as %s", tenant.Name, tenant.Category, tenant.Plan, tenant.Status)
		_, err := s.trail.Record(repos, actor, action, audit.Ref(models.TargetTenant, tenant.ID), models.AuditManagement)
		return err
	})
	if err != nil {
		log.Warnf("[Tenancy] enrollment of %s rejected: %v", req.Name, err)
		return nil, err
	}

	log.Infof("[Tenancy] tenant %d enrolled as %s by %s", tenant.ID, tenant.Status, actor.Name)
	return tenant, nil
}

// Get returns a tenant visible to actor
func (s *Service) Get(ctx context.Context, actor models.Actor, tenantID uint) (*models.Tenant, error) {
	if err := permissions.RequireTenantScope(actor, tenantID); err != nil {
		return nil, err
	}
	var out *models.Tenant
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		out, err = load(repos, tenantID)
		return err
	})
	return out, err
}

// List returns every tenant, for platform operators only
func (s *Service) List(ctx context.Context, actor models.Actor) ([]models.Tenant, error) {
	if actor.Role != models.RoleSuperAdmin {
		return nil, apperror.PermissionDenied("only platform operators list tenants")
	}
	var out []models.Tenant
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		out, err = repos.Tenant.List()
		return err
	})
	return out, err
}

func load(repos *repository.Repositories, id uint) (*models.Tenant, error) {
	t, err := repos.Tenant.GetForUpdate(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("tenant %d not found", id)
		}
		return nil, fmt.Errorf("failed to load tenant %d: %w", id, err)
	}
	return t, nil
}

// change runs one audited tenant command
func (s *Service) change(ctx context.Context, actor models.Actor, tenantID uint, token string, category models.AuditCategory, apply func(t *models.Tenant) (string, error)) (*models.Tenant, error) {
	var out *models.Tenant
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		t, err := load(repos, tenantID)
		if err != nil {
			return err
		}
		if err := permissions.Authorize(repos, actor, token); err != nil {
			return err
		}
		if err := permissions.RequireTenantScope(actor, t.ID); err != nil {
			return err
		}

		action, err := apply(t)
		if err != nil {
			return err
		}
		if err := repos.Tenant.Update(t); err != nil {
			return fmt.Errorf("failed to update tenant: %w", err)
		}
		if _, err := s.trail.Record(repos, actor, action, audit.Ref(models.TargetTenant, t.ID), category); err != nil {
			return err
		}

		out = t
		return nil
	})
	if err != nil {
		log.Warnf("[Tenancy] %s on tenant %d rejected: %v", token, tenantID, err)
		return nil, err
	}

	log.Infof("[Tenancy] %s on tenant %d by %s (status %s)", token, tenantID, actor.Name, out.Status)
	return out, nil
}

func moveTo(to models.TenantStatus, verb string) func(t *models.Tenant) (string, error) {
	return func(t *models.Tenant) (string, error) {
		if !CanTransition(t.Status, to) {
			return "", apperror.InvalidTransition("tenant %d cannot move from %s to %s", t.ID, t.Status, to)
		}
		t.Status = to
		return fmt.Sprintf("%s %s", verb, t.Name), nil
	}
}
