package repository

import (
	"errors"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// configVersionRepository implements the ConfigVersionRepository interface
type configVersionRepository struct {
	db *gorm.DB
}

// NewConfigVersionRepository creates a new config version repository instance
func NewConfigVersionRepository(db *gorm.DB) ConfigVersionRepository {
	return &configVersionRepository{db: db}
}

// Get returns the current version, 0 if the configuration was never edited
func (r *configVersionRepository) Get(name string) (int64, error) {
	var cv models.ConfigVersion
	err := r.db.Where("name = ?", name).First(&cv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return cv.Version, nil
}

// Bump increments the version and returns the new value
func (r *configVersionRepository) Bump(name string) (int64, error) {
	var cv models.ConfigVersion
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", name).First(&cv).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		cv = models.ConfigVersion{Name: name, Version: 1}
		if err := r.db.Create(&cv).Error; err != nil {
			return 0, err
		}
		return cv.Version, nil
	}

	cv.Version++
	if err := r.db.Model(&cv).Update("version", cv.Version).Error; err != nil {
		return 0, err
	}
	return cv.Version, nil
}
