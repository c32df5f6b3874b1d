package repository

import (
	"github.com/ManuelReschke/PropertyFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// permissionRepository implements the PermissionRepository interface
type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository instance
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

// List returns every granted (role, permission) pair
func (r *permissionRepository) List() ([]models.RolePermission, error) {
	var rows []models.RolePermission
	err := r.db.Order("id ASC").Find(&rows).Error
	return rows, err
}

// Grant adds a permission to a role; granting twice is a no-op
func (r *permissionRepository) Grant(role models.Role, permission string) error {
	row := &models.RolePermission{Role: role, Permission: permission}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

// Revoke removes a permission from a role
func (r *permissionRepository) Revoke(role models.Role, permission string) error {
	return r.db.Where("role = ? AND permission = ?", role, permission).Delete(&models.RolePermission{}).Error
}
