package repository

import (
	"github.com/ManuelReschke/PropertyFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// unitRepository implements the UnitRepository interface
type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository instance
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

// Create creates a new unit in the database
func (r *unitRepository) Create(unit *models.Unit) error {
	return r.db.Create(unit).Error
}

// GetByID retrieves a unit by its ID
func (r *unitRepository) GetByID(id uint) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// GetForUpdate retrieves a unit and locks its row until the transaction ends.
// Two concurrent check-ins on the same unit serialise here.
func (r *unitRepository) GetForUpdate(id uint) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// Update saves all unit fields
func (r *unitRepository) Update(unit *models.Unit) error {
	return r.db.Save(unit).Error
}

// ListByTenant returns the units of a tenant ordered by ID
func (r *unitRepository) ListByTenant(tenantID uint) ([]models.Unit, error) {
	var units []models.Unit
	err := r.db.Where("tenant_id = ?", tenantID).Order("id ASC").Find(&units).Error
	return units, err
}
