// Package lifecycle drives the booking and unit occupancy state machines.
// Every command runs in one store transaction and writes exactly one audit entry.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

// ErrUnitBusy is returned by a UnitLocker when another holder owns the unit
var ErrUnitBusy = errors.New("unit is locked by another request")

// UnitLocker serialises check-ins of the same unit across processes.
// Acquire returns a release func, an error wrapping ErrUnitBusy when the unit
// is already locked, or any other error when the lock backend fails.
type UnitLocker interface {
	Acquire(ctx context.Context, unitID uint) (release func(), err error)
}

// Occupancy is the booking and unit pair changed by check-in and check-out
type Occupancy struct {
	Booking *models.Booking
	Unit    *models.Unit
}

// Engine is the only writer of booking and unit status
type Engine struct {
	store  repository.Store
	trail  *audit.Trail
	locker UnitLocker
}

// NewEngine creates a lifecycle engine
func NewEngine(store repository.Store, trail *audit.Trail) *Engine {
	return &Engine{store: store, trail: trail}
}

// WithLocker sets the cross-process unit lock used by CheckIn
func (e *Engine) WithLocker(locker UnitLocker) *Engine {
	e.locker = locker
	return e
}

var bookingTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCheckedIn, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCheckedIn, models.BookingStatusCancelled},
	models.BookingStatusCheckedIn: {models.BookingStatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func requireTransition(b *models.Booking, to models.BookingStatus) error {
	if CanTransition(b.Status, to) {
		return nil
	}
	return apperror.InvalidTransition("booking %d cannot move from %s to %s", b.ID, b.Status, to)
}

// authorizeBooking checks the token, the tenant scope and, for guests, ownership
func authorizeBooking(repos *repository.Repositories, actor models.Actor, token string, b *models.Booking) error {
	if err := permissions.Authorize(repos, actor, token); err != nil {
		return err
	}
	if err := permissions.RequireTenantScope(actor, b.TenantID); err != nil {
		return err
	}
	if actor.Role == models.RoleGuest && b.GuestID != actor.ID {
		return apperror.PermissionDenied("guest %d does not own booking %d", actor.ID, b.ID)
	}
	return nil
}

// authorizeUnit checks the token and the tenant scope. Guests never manage units.
func authorizeUnit(repos *repository.Repositories, actor models.Actor, token string, u *models.Unit) error {
	if actor.Role == models.RoleGuest {
		return apperror.PermissionDenied("guests cannot change unit %d", u.ID)
	}
	if err := permissions.Authorize(repos, actor, token); err != nil {
		return err
	}
	return permissions.RequireTenantScope(actor, u.TenantID)
}

func loadBooking(repos *repository.Repositories, id uint) (*models.Booking, error) {
	b, err := repos.Booking.GetForUpdate(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("booking %d not found", id)
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}
	return b, nil
}

func loadUnit(repos *repository.Repositories, id uint) (*models.Unit, error) {
	u, err := repos.Unit.GetForUpdate(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("unit %d not found", id)
		}
		return nil, fmt.Errorf("failed to load unit %d: %w", id, err)
	}
	return u, nil
}

// inHouse returns the checked-in bookings of a unit other than exclude
func inHouse(repos *repository.Repositories, unitID, exclude uint) ([]models.Booking, error) {
	bookings, err := repos.Booking.List(repository.BookingFilter{
		UnitID:   unitID,
		Statuses: []models.BookingStatus{models.BookingStatusCheckedIn},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list in-house bookings of unit %d: %w", unitID, err)
	}
	out := bookings[:0]
	for _, b := range bookings {
		if b.ID != exclude {
			out = append(out, b)
		}
	}
	return out, nil
}
