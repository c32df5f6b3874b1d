package lifecycle

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

// SetUnitStatus applies a housekeeping status. Any status may follow any other,
// except that Blocked is reserved for units with a guest in house: such a unit
// cannot leave Blocked and an empty unit cannot enter it. This is stricter than
// an unconditional move: Dirty, Cleaning or Maintenance on an occupied unit is
// refused with InvalidTransition until the booking is checked out.
func (e *Engine) SetUnitStatus(ctx context.Context, actor models.Actor, unitID uint, status models.UnitStatus) (*models.Unit, error) {
	if !status.Valid() {
		return nil, apperror.Validation("unknown unit status %q", status)
	}

	var out *models.Unit
	err := e.store.Transaction(ctx, func(repos *repository.Repositories) error {
		u, err := loadUnit(repos, unitID)
		if err != nil {
			return err
		}
		if err := authorizeUnit(repos, actor, permissions.UnitSetStatus, u); err != nil {
			return err
		}

		guests, err := inHouse(repos, u.ID, 0)
		if err != nil {
			return err
		}
		occupied := len(guests) > 0
		if occupied && status != models.UnitStatusBlocked {
			return apperror.InvalidTransition("unit %d has booking %d in house, check out first", u.ID, guests[0].ID)
		}
		if !occupied && status == models.UnitStatusBlocked {
			return apperror.InvalidTransition("unit %d has no guest in house", u.ID)
		}

		from := u.Status
		u.SetStatus(status)
		if err := repos.Unit.Update(u); err != nil {
			return fmt.Errorf("failed to update unit: %w", err)
		}

		action := fmt.Sprintf("changed %s from %s to %s", u.Name, from, status)
		if _, err := e.trail.Record(repos, actor, action, audit.Ref(models.TargetUnit, u.ID), models.AuditOperational); err != nil {
			return err
		}

		out = u
		return nil
	})
	if err != nil {
		log.Warnf("[Lifecycle] status %s for unit %d rejected: %v", status, unitID, err)
		return nil, err
	}

	log.Infof("[Lifecycle] unit %d is now %s (%s)", out.ID, out.Status, actor.Name)
	return out, nil
}

// Units lists the units of a tenant for the housekeeping board
func (e *Engine) Units(ctx context.Context, actor models.Actor, tenantID uint) ([]models.Unit, error) {
	if actor.Role == models.RoleGuest {
		return nil, apperror.PermissionDenied("guests cannot list units")
	}
	if err := permissions.RequireTenantScope(actor, tenantID); err != nil {
		return nil, err
	}

	var out []models.Unit
	err := e.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		out, err = repos.Unit.ListByTenant(tenantID)
		return err
	})
	return out, err
}
