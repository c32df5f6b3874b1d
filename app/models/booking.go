package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// BookingStatus is the reservation status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	// BookingStatusCheckedOut is only found on legacy rows; check-out completes a booking.
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// CheckInDateLayout is the layout used for check-in/check-out date matching
const CheckInDateLayout = "2006-01-02"

// Booking is a guest reservation of a unit. Bookings are never deleted.
type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	TenantID        uint          `gorm:"index;not null" json:"tenant_id" validate:"required"`
	UnitID          uint          `gorm:"index;not null" json:"unit_id" validate:"required"`
	GuestID         uint          `gorm:"index;not null" json:"guest_id" validate:"required"`
	CheckInDate     time.Time     `gorm:"type:date;not null;index" json:"check_in_date" validate:"required"`
	CheckOutDate    time.Time     `gorm:"type:date;not null" json:"check_out_date" validate:"required"`
	TotalPrice      int64         `gorm:"not null;default:0" json:"total_price" validate:"gte=0"`
	Status          BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"required,oneof=pending confirmed checked_in checked_out completed cancelled"`
	VerifiedPayment bool          `gorm:"not null;default:false" json:"verified_payment"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Booking) Validate() error {
	v := validator.New()

	return v.Struct(b)
}

// IsArrival reports whether the guest has not arrived yet
func (b *Booking) IsArrival() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsInHouse reports whether the guest currently occupies the unit
func (b *Booking) IsInHouse() bool {
	return b.Status == BookingStatusCheckedIn
}

// IsTerminal reports whether the booking can no longer change status
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusCheckedOut:
		return true
	default:
		return false
	}
}

// CheckInDay formats the check-in date for display and substring filtering
func (b *Booking) CheckInDay() string {
	return b.CheckInDate.Format(CheckInDateLayout)
}
