package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/entitlements"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

// CheckIn moves an arriving booking in-house and blocks its unit
func (e *Engine) CheckIn(ctx context.Context, actor models.Actor, bookingID uint) (*Occupancy, error) {
	if e.locker != nil {
		var unitID uint
		err := e.store.Transaction(ctx, func(repos *repository.Repositories) error {
			b, err := repos.Booking.GetByID(bookingID)
			if err != nil {
				return err
			}
			unitID = b.UnitID
			return nil
		})
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if unitID != 0 {
			release, err := e.locker.Acquire(ctx, unitID)
			if errors.Is(err, ErrUnitBusy) {
				log.Warnf("[Lifecycle] check-in of booking %d rejected, unit %d is locked", bookingID, unitID)
				return nil, apperror.Wrap(err, apperror.KindInvalidTransition, fmt.Sprintf("unit %d is busy", unitID))
			}
			if err != nil {
				log.Errorf("[Lifecycle] check-in of booking %d could not lock unit %d: %v", bookingID, unitID, err)
				return nil, err
			}
			defer release()
		}
	}

	var out *Occupancy
	err := e.store.Transaction(ctx, func(repos *repository.Repositories) error {
		b, err := loadBooking(repos, bookingID)
		if err != nil {
			return err
		}
		if err := authorizeBooking(repos, actor, permissions.BookingCheckIn, b); err != nil {
			return err
		}
		if err := requireTransition(b, models.BookingStatusCheckedIn); err != nil {
			return err
		}

		u, err := loadUnit(repos, b.UnitID)
		if err != nil {
			return err
		}
		others, err := inHouse(repos, u.ID, b.ID)
		if err != nil {
			return err
		}
		if len(others) > 0 {
			return apperror.InvalidTransition("unit %d is occupied by booking %d", u.ID, others[0].ID)
		}

		b.Status = models.BookingStatusCheckedIn
		u.SetStatus(models.UnitStatusBlocked)
		if err := repos.Booking.Update(b); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		if err := repos.Unit.Update(u); err != nil {
			return fmt.Errorf("failed to update unit: %w", err)
		}

		action := fmt.Sprintf("checked in booking %d to %s", b.ID, u.Name)
		if _, err := e.trail.RecordRelated(repos, actor, action,
			audit.Ref(models.TargetBooking, b.ID), audit.Ref(models.TargetUnit, u.ID), models.AuditOperational); err != nil {
			return err
		}

		out = &Occupancy{Booking: b, Unit: u}
		return nil
	})
	if err != nil {
		log.Warnf("[Lifecycle] check-in of booking %d rejected: %v", bookingID, err)
		return nil, err
	}

	log.Infof("[Lifecycle] booking %d checked in to unit %d by %s", out.Booking.ID, out.Unit.ID, actor.Name)
	return out, nil
}

// CheckOut completes an in-house booking and leaves its unit dirty
func (e *Engine) CheckOut(ctx context.Context, actor models.Actor, bookingID uint) (*Occupancy, error) {
	var out *Occupancy
	err := e.store.Transaction(ctx, func(repos *repository.Repositories) error {
		b, err := loadBooking(repos, bookingID)
		if err != nil {
			return err
		}
		if err := authorizeBooking(repos, actor, permissions.BookingCheckOut, b); err != nil {
			return err
		}
		if err := requireTransition(b, models.BookingStatusCompleted); err != nil {
			return err
		}

		u, err := loadUnit(repos, b.UnitID)
		if err != nil {
			return err
		}

		b.Status = models.BookingStatusCompleted
		u.SetStatus(models.UnitStatusDirty)
		if err := repos.Booking.Update(b); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		if err := repos.Unit.Update(u); err != nil {
			return fmt.Errorf("failed to update unit: %w", err)
		}

		action := fmt.Sprintf("checked out booking %d from %s", b.ID, u.Name)
		if _, err := e.trail.RecordRelated(repos, actor, action,
			audit.Ref(models.TargetBooking, b.ID), audit.Ref(models.TargetUnit, u.ID), models.AuditOperational); err != nil {
			return err
		}

		out = &Occupancy{Booking: b, Unit: u}
		return nil
	})
	if err != nil {
		log.Warnf("[Lifecycle] check-out of booking %d rejected: %v", bookingID, err)
		return nil, err
	}

	log.Infof("[Lifecycle] booking %d checked out of unit %d by %s", out.Booking.ID, out.Unit.ID, actor.Name)
	return out, nil
}

// Confirm accepts a pending reservation
func (e *Engine) Confirm(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error) {
	return e.changeBooking(ctx, actor, bookingID, permissions.BookingConfirm, models.AuditOperational,
		func(b *models.Booking) (string, error) {
			if b.Status != models.BookingStatusPending {
				return "", apperror.InvalidTransition("booking %d is %s, only pending bookings can be confirmed", b.ID, b.Status)
			}
			b.Status = models.BookingStatusConfirmed
			return fmt.Sprintf("confirmed booking %d", b.ID), nil
		})
}

// Cancel cancels a booking that has not checked in. The unit is left as is.
func (e *Engine) Cancel(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error) {
	return e.changeBooking(ctx, actor, bookingID, permissions.BookingCancel, models.AuditOperational,
		func(b *models.Booking) (string, error) {
			if err := requireTransition(b, models.BookingStatusCancelled); err != nil {
				return "", err
			}
			b.Status = models.BookingStatusCancelled
			return fmt.Sprintf("cancelled booking %d", b.ID), nil
		})
}

// VerifyPayment marks the payment of a booking as verified. Status is untouched
// and verifying twice is accepted.
func (e *Engine) VerifyPayment(ctx context.Context, actor models.Actor, bookingID uint) (*models.Booking, error) {
	return e.changeBooking(ctx, actor, bookingID, permissions.PaymentVerify, models.AuditFinancial,
		func(b *models.Booking) (string, error) {
			b.VerifiedPayment = true
			return fmt.Sprintf("verified payment of booking %d", b.ID), nil
		})
}

func (e *Engine) changeBooking(ctx context.Context, actor models.Actor, bookingID uint, token string, category models.AuditCategory, apply func(b *models.Booking) (string, error)) (*models.Booking, error) {
	var out *models.Booking
	err := e.store.Transaction(ctx, func(repos *repository.Repositories) error {
		b, err := loadBooking(repos, bookingID)
		if err != nil {
			return err
		}
		if err := authorizeBooking(repos, actor, token, b); err != nil {
			return err
		}

		action, err := apply(b)
		if err != nil {
			return err
		}
		if err := repos.Booking.Update(b); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		if _, err := e.trail.Record(repos, actor, action, audit.Ref(models.TargetBooking, b.ID), category); err != nil {
			return err
		}

		out = b
		return nil
	})
	if err != nil {
		log.Warnf("[Lifecycle] %s on booking %d rejected: %v", token, bookingID, err)
		return nil, err
	}

	log.Infof("[Lifecycle] %s on booking %d by %s", token, bookingID, actor.Name)
	return out, nil
}

// BookingRequest is a guest reservation request
type BookingRequest struct {
	TenantID   uint
	UnitID     uint
	GuestID    uint
	CheckIn    time.Time
	CheckOut   time.Time
	TotalPrice int64
	// Instant bookings skip the pending stage
	Instant bool
}

// CreateBooking records a reservation for an active tenant entitled to bookings
func (e *Engine) CreateBooking(ctx context.Context, actor models.Actor, req BookingRequest) (*models.Booking, error) {
	if actor.Role == models.RoleGuest {
		if req.GuestID != 0 && req.GuestID != actor.ID {
			return nil, apperror.PermissionDenied("guest %d cannot book for guest %d", actor.ID, req.GuestID)
		}
		req.GuestID = actor.ID
	}
	if req.GuestID == 0 {
		return nil, apperror.Validation("booking needs a guest")
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, apperror.Validation("check-out must be after check-in")
	}
	if req.TotalPrice < 0 {
		return nil, apperror.Validation("total price must not be negative")
	}

	var out *models.Booking
	err := e.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := permissions.Authorize(repos, actor, permissions.BookingCreate); err != nil {
			return err
		}
		if err := permissions.RequireTenantScope(actor, req.TenantID); err != nil {
			return err
		}

		tenant, err := repos.Tenant.GetByID(req.TenantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NotFound("tenant %d not found", req.TenantID)
			}
			return fmt.Errorf("failed to load tenant: %w", err)
		}
		if !tenant.IsActive() {
			return apperror.InvalidTransition("tenant %d is %s and cannot take bookings", tenant.ID, tenant.Status)
		}
		cfg, err := entitlements.LoadConfig(repos)
		if err != nil {
			return err
		}
		if !entitlements.Allows(tenant, cfg, models.ModuleBooking) {
			return apperror.PermissionDenied("tenant %d is not entitled to the booking module", tenant.ID)
		}

		u, err := repos.Unit.GetByID(req.UnitID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NotFound("unit %d not found", req.UnitID)
			}
			return fmt.Errorf("failed to load unit: %w", err)
		}
		if u.TenantID != tenant.ID {
			return apperror.Validation("unit %d does not belong to tenant %d", u.ID, tenant.ID)
		}

		b := &models.Booking{
			TenantID:     tenant.ID,
			UnitID:       u.ID,
			GuestID:      req.GuestID,
			CheckInDate:  req.CheckIn,
			CheckOutDate: req.CheckOut,
			TotalPrice:   req.TotalPrice,
			Status:       models.BookingStatusPending,
		}
		if req.Instant {
			b.Status = models.BookingStatusConfirmed
		}
		if err := b.Validate(); err != nil {
			return apperror.Wrap(err, apperror.KindValidation, "invalid booking")
		}
		if err := repos.Booking.Create(b); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		action := fmt.Sprintf("created %s booking %d for %s to %s", b.Status, b.ID, b.CheckInDay(), b.CheckOutDate.Format(models.CheckInDateLayout))
		if _, err := e.trail.RecordRelated(repos, actor, action,
			audit.Ref(models.TargetBooking, b.ID), audit.Ref(models.TargetUnit, u.ID), models.AuditOperational); err != nil {
			return err
		}

		out = b
		return nil
	})
	if err != nil {
		log.Warnf("[Lifecycle] booking request for unit %d rejected: %v", req.UnitID, err)
		return nil, err
	}

	log.Infof("[Lifecycle] booking %d created for unit %d (%s)", out.ID, out.UnitID, out.Status)
	return out, nil
}
