package tenancy

import (
	"context"
	"fmt"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

// Approve activates a pending listing
func (s *Service) Approve(ctx context.Context, actor models.Actor, tenantID uint) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantApprove, models.AuditManagement,
		moveTo(models.TenantStatusActive, "approved"))
}

// Reject declines a pending listing
func (s *Service) Reject(ctx context.Context, actor models.Actor, tenantID uint, reason string) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantApprove, models.AuditManagement,
		withReason(moveTo(models.TenantStatusRejected, "rejected"), reason))
}

// RequestInfo sends a pending listing back to its owner for more details
func (s *Service) RequestInfo(ctx context.Context, actor models.Actor, tenantID uint, note string) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantApprove, models.AuditManagement,
		withReason(moveTo(models.TenantStatusInfoRequested, "requested information from"), note))
}

// Resubmit returns a listing to review after the owner answered
func (s *Service) Resubmit(ctx context.Context, actor models.Actor, tenantID uint) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantEnroll, models.AuditManagement,
		moveTo(models.TenantStatusPending, "resubmitted"))
}

// Suspend stops an active tenant from operating
func (s *Service) Suspend(ctx context.Context, actor models.Actor, tenantID uint, reason string) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantSuspend, models.AuditSecurity,
		withReason(moveTo(models.TenantStatusSuspended, "suspended"), reason))
}

// Activate lifts a suspension
func (s *Service) Activate(ctx context.Context, actor models.Actor, tenantID uint) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantSuspend, models.AuditSecurity,
		moveTo(models.TenantStatusActive, "reactivated"))
}

// Terminate ends a tenant for good. The row is kept.
func (s *Service) Terminate(ctx context.Context, actor models.Actor, tenantID uint, reason string) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantTerminate, models.AuditSecurity,
		withReason(func(t *models.Tenant) (string, error) {
			if t.IsTerminated() {
				return "", apperror.InvalidTransition("tenant %d is already terminated", t.ID)
			}
			t.Status = models.TenantStatusTerminated
			t.Featured = false
			t.FeaturedRequested = false
			return fmt.Sprintf("terminated %s", t.Name), nil
		}, reason))
}

// Penalize records a policy violation against a tenant
func (s *Service) Penalize(ctx context.Context, actor models.Actor, tenantID uint, reason string) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantPenalize, models.AuditSecurity,
		withReason(func(t *models.Tenant) (string, error) {
			if t.IsTerminated() {
				return "", apperror.InvalidTransition("tenant %d is terminated", t.ID)
			}
			t.Penalties++
			return fmt.Sprintf("penalized %s (%d total)", t.Name, t.Penalties), nil
		}, reason))
}

// RequestFeatured asks the platform to feature an active tenant
func (s *Service) RequestFeatured(ctx context.Context, actor models.Actor, tenantID uint) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantFeatureRequest, models.AuditManagement,
		func(t *models.Tenant) (string, error) {
			if !t.IsActive() {
				return "", apperror.InvalidTransition("tenant %d is %s and cannot be featured", t.ID, t.Status)
			}
			if t.Featured {
				return "", apperror.InvalidTransition("tenant %d is already featured", t.ID)
			}
			t.FeaturedRequested = true
			return fmt.Sprintf("requested featured listing for %s", t.Name), nil
		})
}

// SetFeatured grants or withdraws the featured flag and settles any open request
func (s *Service) SetFeatured(ctx context.Context, actor models.Actor, tenantID uint, featured bool) (*models.Tenant, error) {
	return s.change(ctx, actor, tenantID, permissions.TenantFeature, models.AuditManagement,
		func(t *models.Tenant) (string, error) {
			if featured && !t.IsActive() {
				return "", apperror.InvalidTransition("tenant %d is %s and cannot be featured", t.ID, t.Status)
			}
			t.Featured = featured
			t.FeaturedRequested = false
			if featured {
				return fmt.Sprintf("featured %s", t.Name), nil
			}
			return fmt.Sprintf("unfeatured %s", t.Name), nil
		})
}

// ChangePlan moves a tenant to another subscription plan
func (s *Service) ChangePlan(ctx context.Context, actor models.Actor, tenantID uint, plan models.Plan) (*models.Tenant, error) {
	if !plan.Valid() {
		return nil, apperror.Validation("unknown plan %q", plan)
	}
	return s.change(ctx, actor, tenantID, permissions.TenantPlan, models.AuditManagement,
		func(t *models.Tenant) (string, error) {
			if t.IsTerminated() {
				return "", apperror.InvalidTransition("tenant %d is terminated", t.ID)
			}
			from := t.Plan
			t.Plan = plan
			return fmt.Sprintf("changed plan of %s from %s to %s", t.Name, from, plan), nil
		})
}

func withReason(apply func(t *models.Tenant) (string, error), reason string) func(t *models.Tenant) (string, error) {
	return func(t *models.Tenant) (string, error) {
		action, err := apply(t)
		if err != nil || reason == "" {
			return action, err
		}
		return fmt.Sprintf("%s: %s", action, reason), nil
	}
}
