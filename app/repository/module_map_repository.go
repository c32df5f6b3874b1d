package repository

import (
	"github.com/ManuelReschke/PropertyFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// moduleMapRepository implements the ModuleMapRepository interface
type moduleMapRepository struct {
	db *gorm.DB
}

// NewModuleMapRepository creates a new module map repository instance
func NewModuleMapRepository(db *gorm.DB) ModuleMapRepository {
	return &moduleMapRepository{db: db}
}

// ListCategoryModules returns every category -> module row
func (r *moduleMapRepository) ListCategoryModules() ([]models.CategoryModule, error) {
	var rows []models.CategoryModule
	err := r.db.Order("id ASC").Find(&rows).Error
	return rows, err
}

// ListPlanModules returns every plan -> module row
func (r *moduleMapRepository) ListPlanModules() ([]models.PlanModule, error) {
	var rows []models.PlanModule
	err := r.db.Order("id ASC").Find(&rows).Error
	return rows, err
}

// SetCategoryModule adds or removes a module for a category
func (r *moduleMapRepository) SetCategoryModule(category models.Category, module models.Module, enabled bool) error {
	if !enabled {
		return r.db.Where("category = ? AND module = ?", category, module).Delete(&models.CategoryModule{}).Error
	}
	row := &models.CategoryModule{Category: category, Module: module}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

// SetPlanModule adds or removes a module for a plan
func (r *moduleMapRepository) SetPlanModule(plan models.Plan, module models.Module, enabled bool) error {
	if !enabled {
		return r.db.Where("plan = ? AND module = ?", plan, module).Delete(&models.PlanModule{}).Error
	}
	row := &models.PlanModule{Plan: plan, Module: module}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}
