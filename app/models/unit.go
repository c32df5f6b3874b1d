package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// UnitStatus is the housekeeping status of a rentable unit
type UnitStatus string

const (
	UnitStatusReady       UnitStatus = "ready"
	UnitStatusDirty       UnitStatus = "dirty"
	UnitStatusCleaning    UnitStatus = "cleaning"
	UnitStatusMaintenance UnitStatus = "maintenance"
	UnitStatusBlocked     UnitStatus = "blocked"
)

// UnitStatuses lists every housekeeping status
var UnitStatuses = []UnitStatus{
	UnitStatusReady,
	UnitStatusDirty,
	UnitStatusCleaning,
	UnitStatusMaintenance,
	UnitStatusBlocked,
}

// Valid reports whether s is a known housekeeping status
func (s UnitStatus) Valid() bool {
	for _, known := range UnitStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Unit is a rentable physical asset (room, house, bed) owned by a tenant.
// Available is derived from Status and must only be changed through SetStatus.
type Unit struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TenantID  uint       `gorm:"index;not null" json:"tenant_id" validate:"required"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Status    UnitStatus `gorm:"type:varchar(20);not null;default:'ready'" json:"status" validate:"required,oneof=ready dirty cleaning maintenance blocked"`
	Available bool       `gorm:"not null" json:"available"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// SetStatus changes the housekeeping status and recomputes availability
func (u *Unit) SetStatus(status UnitStatus) {
	u.Status = status
	u.Available = status == UnitStatusReady
}

// NewUnit returns a unit in the given status with a consistent availability flag
func NewUnit(tenantID uint, name string, status UnitStatus) *Unit {
	u := &Unit{TenantID: tenantID, Name: name}
	u.SetStatus(status)
	return u
}

func (u *Unit) Validate() error {
	v := validator.New()

	return v.Struct(u)
}
