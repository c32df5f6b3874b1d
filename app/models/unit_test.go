package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitSetStatusDerivesAvailability(t *testing.T) {
	u := NewUnit(1, "Room 101", UnitStatusDirty)
	assert.False(t, u.Available)

	for _, status := range UnitStatuses {
		u.SetStatus(status)
		assert.Equal(t, status == UnitStatusReady, u.Available, "status %s", status)
	}
}

func TestUnitValidate(t *testing.T) {
	u := NewUnit(1, "Room 101", UnitStatusReady)
	require.NoError(t, u.Validate())

	u.Status = "occupied"
	assert.Error(t, u.Validate())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, CategoryBoardingHouse.Valid())
	assert.False(t, Category("castle").Valid())
	assert.True(t, PlanPremium.Valid())
	assert.False(t, Plan("enterprise").Valid())
	assert.True(t, ModuleMonthlyRental.Valid())
	assert.False(t, Module("chat").Valid())
	assert.True(t, RoleAdminStaff.Valid())
	assert.False(t, Role("root").Valid())
	assert.True(t, AuditFinancial.Valid())
	assert.False(t, AuditCategory("misc").Valid())
}

func TestTenantValidate(t *testing.T) {
	tenant := &Tenant{Name: "Sunrise Hotel", Category: CategoryHotel, Plan: PlanPro, Status: TenantStatusPending}
	require.NoError(t, tenant.Validate())

	tenant.Penalties = -1
	assert.Error(t, tenant.Validate())

	tenant.Penalties = 0
	tenant.Category = "castle"
	assert.Error(t, tenant.Validate())
}

func TestBookingPredicates(t *testing.T) {
	b := &Booking{
		TenantID:     1,
		UnitID:       2,
		GuestID:      3,
		CheckInDate:  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		Status:       BookingStatusConfirmed,
	}
	require.NoError(t, b.Validate())
	assert.True(t, b.IsArrival())
	assert.False(t, b.IsInHouse())
	assert.Equal(t, "2024-03-09", b.CheckInDay())

	b.Status = BookingStatusCheckedOut
	assert.True(t, b.IsTerminal())
}

func TestAuditRefs(t *testing.T) {
	e := &AuditLogEntry{TargetType: TargetBooking, TargetID: "12"}
	assert.Equal(t, "booking:12", e.TargetRef())
	assert.Equal(t, "", e.RelatedRef())

	e.RelatedType, e.RelatedID = TargetUnit, "4"
	assert.Equal(t, "unit:4", e.RelatedRef())
}

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("Front Desk", "desk@example.com", RoleAdminStaff, 9)
	require.NoError(t, err)
	assert.True(t, u.IsActive())
	assert.Equal(t, Actor{ID: 0, Name: "Front Desk", Role: RoleAdminStaff, TenantID: 9}, u.Actor())

	_, err = CreateUser("Front Desk", "desk@example.com", Role("root"), 9)
	assert.Error(t, err)
}
