package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/memstore"
)

var (
	operator = models.SystemActor
	arrival  = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store  *memstore.Store
	trail  *audit.Trail
	engine *Engine

	tenant      *models.Tenant
	otherTenant *models.Tenant
	unit        *models.Unit
}

// newFixture stores an active hotel entitled to bookings with one ready unit,
// and a second tenant for scope checks.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: memstore.New(), trail: audit.NewTrail(nil)}
	f.engine = NewEngine(f.store, f.trail)

	f.exec(t, func(repos *repository.Repositories) error {
		f.tenant = &models.Tenant{Name: "Sunrise Hotel", Category: models.CategoryHotel, Plan: models.PlanBasic, Status: models.TenantStatusActive}
		require.NoError(t, repos.Tenant.Create(f.tenant))
		f.otherTenant = &models.Tenant{Name: "Lakeside Homestay", Category: models.CategoryHomestay, Plan: models.PlanBasic, Status: models.TenantStatusActive}
		require.NoError(t, repos.Tenant.Create(f.otherTenant))

		require.NoError(t, repos.ModuleMap.SetCategoryModule(models.CategoryHotel, models.ModuleBooking, true))
		require.NoError(t, repos.ModuleMap.SetPlanModule(models.PlanBasic, models.ModuleBooking, true))

		f.unit = models.NewUnit(f.tenant.ID, "Room 101", models.UnitStatusReady)
		return repos.Unit.Create(f.unit)
	})
	return f
}

func (f *fixture) exec(t *testing.T, fn func(repos *repository.Repositories) error) {
	t.Helper()
	require.NoError(t, f.store.Transaction(context.Background(), fn))
}

func (f *fixture) addUnit(t *testing.T, tenantID uint, name string, status models.UnitStatus) *models.Unit {
	t.Helper()
	u := models.NewUnit(tenantID, name, status)
	f.exec(t, func(repos *repository.Repositories) error { return repos.Unit.Create(u) })
	return u
}

func (f *fixture) addBooking(t *testing.T, unit *models.Unit, guestID uint, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := &models.Booking{
		TenantID:     unit.TenantID,
		UnitID:       unit.ID,
		GuestID:      guestID,
		CheckInDate:  arrival,
		CheckOutDate: arrival.AddDate(0, 0, 2),
		TotalPrice:   1_500_000,
		Status:       status,
	}
	f.exec(t, func(repos *repository.Repositories) error { return repos.Booking.Create(b) })
	return b
}

func (f *fixture) grant(t *testing.T, role models.Role, tokens ...string) {
	t.Helper()
	f.exec(t, func(repos *repository.Repositories) error {
		for _, token := range tokens {
			if err := repos.Permission.Grant(role, token); err != nil {
				return err
			}
		}
		return nil
	})
}

func (f *fixture) booking(t *testing.T, id uint) *models.Booking {
	t.Helper()
	var b *models.Booking
	f.exec(t, func(repos *repository.Repositories) error {
		var err error
		b, err = repos.Booking.GetByID(id)
		return err
	})
	return b
}

func (f *fixture) unitByID(t *testing.T, id uint) *models.Unit {
	t.Helper()
	var u *models.Unit
	f.exec(t, func(repos *repository.Repositories) error {
		var err error
		u, err = repos.Unit.GetByID(id)
		return err
	})
	return u
}

func (f *fixture) auditLen(t *testing.T) int64 {
	t.Helper()
	n, err := f.trail.Count(context.Background(), f.store)
	require.NoError(t, err)
	return n
}

func (f *fixture) lastEntry(t *testing.T) models.AuditLogEntry {
	t.Helper()
	entries, err := f.trail.Query(context.Background(), f.store, audit.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}
