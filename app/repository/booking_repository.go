package repository

import (
	"github.com/ManuelReschke/PropertyFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bookingRepository implements the BookingRepository interface
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository instance
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking in the database
func (r *bookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

// GetByID retrieves a booking by its ID
func (r *bookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetForUpdate retrieves a booking and locks its row until the transaction ends
func (r *bookingRepository) GetForUpdate(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Update saves all booking fields
func (r *bookingRepository) Update(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

// List returns bookings matching the filter ordered by ID
func (r *bookingRepository) List(filter BookingFilter) ([]models.Booking, error) {
	query := r.db.Model(&models.Booking{})
	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.UnitID != 0 {
		query = query.Where("unit_id = ?", filter.UnitID)
	}
	if filter.GuestID != 0 {
		query = query.Where("guest_id = ?", filter.GuestID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	var bookings []models.Booking
	err := query.Order("id ASC").Find(&bookings).Error
	return bookings, err
}
