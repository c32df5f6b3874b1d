package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
)

func TestTransactionCommitsOnSuccess(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.Transaction(ctx, func(repos *repository.Repositories) error {
		return repos.Unit.Create(models.NewUnit(1, "Room 1", models.UnitStatusReady))
	})
	require.NoError(t, err)

	err = store.Transaction(ctx, func(repos *repository.Repositories) error {
		unit, err := repos.Unit.GetByID(1)
		require.NoError(t, err)
		assert.Equal(t, "Room 1", unit.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestTransactionDiscardsWritesOnError(t *testing.T) {
	store := New()
	ctx := context.Background()
	rejected := errors.New("rejected")

	err := store.Transaction(ctx, func(repos *repository.Repositories) error {
		require.NoError(t, repos.AuditLog.Append(&models.AuditLogEntry{Action: "partial"}))
		require.NoError(t, repos.Tenant.Create(&models.Tenant{Name: "Ghost"}))
		return rejected
	})
	assert.ErrorIs(t, err, rejected)

	err = store.Transaction(ctx, func(repos *repository.Repositories) error {
		count, err := repos.AuditLog.Count()
		require.NoError(t, err)
		assert.Zero(t, count)

		_, err = repos.Tenant.GetByID(1)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestTransactionHonoursCancelledContext(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Transaction(ctx, func(repos *repository.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestModuleMapToggle(t *testing.T) {
	store := New()
	err := store.Transaction(context.Background(), func(repos *repository.Repositories) error {
		require.NoError(t, repos.ModuleMap.SetCategoryModule(models.CategoryHotel, models.ModuleBooking, true))
		require.NoError(t, repos.ModuleMap.SetCategoryModule(models.CategoryHotel, models.ModuleBooking, true))
		require.NoError(t, repos.ModuleMap.SetCategoryModule(models.CategoryHotel, models.ModuleFinance, true))

		rows, err := repos.ModuleMap.ListCategoryModules()
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		require.NoError(t, repos.ModuleMap.SetCategoryModule(models.CategoryHotel, models.ModuleBooking, false))
		rows, err = repos.ModuleMap.ListCategoryModules()
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, models.ModuleFinance, rows[0].Module)
		return nil
	})
	require.NoError(t, err)
}

func TestBookingListFilter(t *testing.T) {
	store := New()
	err := store.Transaction(context.Background(), func(repos *repository.Repositories) error {
		require.NoError(t, repos.Booking.Create(&models.Booking{TenantID: 1, UnitID: 1, Status: models.BookingStatusCheckedIn}))
		require.NoError(t, repos.Booking.Create(&models.Booking{TenantID: 1, UnitID: 2, Status: models.BookingStatusPending}))
		require.NoError(t, repos.Booking.Create(&models.Booking{TenantID: 2, UnitID: 3, Status: models.BookingStatusCheckedIn}))

		inHouse, err := repos.Booking.List(repository.BookingFilter{
			TenantID: 1,
			Statuses: []models.BookingStatus{models.BookingStatusCheckedIn},
		})
		require.NoError(t, err)
		require.Len(t, inHouse, 1)
		assert.Equal(t, uint(1), inHouse[0].UnitID)
		return nil
	})
	require.NoError(t, err)
}
