package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PropertyFox/app/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return db, mock
}

func TestTenantGetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTenantRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "category", "plan", "status", "penalties"}).
		AddRow(5, "Sunrise Hotel", "hotel", "pro", "active", 1)
	mock.ExpectQuery("SELECT \\* FROM `tenants` WHERE `tenants`.`id` = \\?").WillReturnRows(rows)

	tenant, err := repo.GetByID(5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), tenant.ID)
	assert.Equal(t, models.CategoryHotel, tenant.Category)
	assert.Equal(t, models.PlanPro, tenant.Plan)
	assert.Equal(t, 1, tenant.Penalties)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantGetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTenantRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `tenants`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(99)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitGetForUpdateLocksRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUnitRepository(db)

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "status", "available"}).
		AddRow(3, 1, "Room 3", "ready", true)
	mock.ExpectQuery("SELECT \\* FROM `units` WHERE `units`.`id` = \\? .*FOR UPDATE").WillReturnRows(rows)

	unit, err := repo.GetForUpdate(3)
	require.NoError(t, err)
	assert.Equal(t, models.UnitStatusReady, unit.Status)
	assert.True(t, unit.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitCreateKeepsUnavailableFlag(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUnitRepository(db)

	mock.ExpectExec("INSERT INTO `units`").
		WithArgs(uint(1), "Room 102", models.UnitStatusDirty, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	unit := models.NewUnit(1, "Room 102", models.UnitStatusDirty)
	require.NoError(t, repo.Create(unit))
	assert.Equal(t, uint(7), unit.ID)
	assert.Equal(t, models.UnitStatusDirty, unit.Status)
	assert.False(t, unit.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListAppliesFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBookingRepository(db)

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "unit_id", "status"}).
		AddRow(1, 2, 7, "checked_in")
	mock.ExpectQuery("SELECT \\* FROM `bookings` WHERE tenant_id = \\? AND unit_id = \\? AND status IN \\(\\?\\) ORDER BY id ASC").
		WithArgs(2, 7, models.BookingStatusCheckedIn).
		WillReturnRows(rows)

	bookings, err := repo.List(BookingFilter{
		TenantID: 2,
		UnitID:   7,
		Statuses: []models.BookingStatus{models.BookingStatusCheckedIn},
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.BookingStatusCheckedIn, bookings[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLatestLocksTailOfEmptyLog(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAuditLogRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `audit_logs` ORDER BY id DESC .*FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	entry, err := repo.Latest()
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionGrantIgnoresDuplicates(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPermissionRepository(db)

	mock.ExpectExec("INSERT INTO `role_permissions` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Grant(models.RoleAdminStaff, "booking.check_in"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreTransactionCommits(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `audit_logs`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.Transaction(context.Background(), func(repos *Repositories) error {
		return repos.AuditLog.Append(&models.AuditLogEntry{
			Action:     "checked in booking 1",
			TargetType: models.TargetBooking,
			TargetID:   "1",
			Category:   models.AuditOperational,
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreTransactionRollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)
	sentinel := errors.New("rejected")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.Transaction(context.Background(), func(repos *Repositories) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
