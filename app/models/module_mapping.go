package models

import "time"

// Module is a toggleable functional capability of the console
type Module string

const (
	ModuleBooking       Module = "booking"
	ModulePayment       Module = "payment"
	ModuleReviews       Module = "reviews"
	ModuleMaintenance   Module = "maintenance"
	ModuleMarketing     Module = "marketing"
	ModuleInventory     Module = "inventory"
	ModuleFinance       Module = "finance"
	ModuleTeam          Module = "team"
	ModuleMonthlyRental Module = "monthly_rental"
	ModuleSalesPurchase Module = "sales_purchase"
)

// Modules lists every module in navigation order
var Modules = []Module{
	ModuleBooking,
	ModulePayment,
	ModuleReviews,
	ModuleMaintenance,
	ModuleMarketing,
	ModuleInventory,
	ModuleFinance,
	ModuleTeam,
	ModuleMonthlyRental,
	ModuleSalesPurchase,
}

// Valid reports whether m is a known module
func (m Module) Valid() bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

// CategoryModule enables a module for every tenant of a category
type CategoryModule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  Category  `gorm:"type:varchar(32);not null;index:ux_category_modules,unique,priority:1" json:"category"`
	Module    Module    `gorm:"type:varchar(32);not null;index:ux_category_modules,unique,priority:2" json:"module"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PlanModule enables a module for every tenant on a plan
type PlanModule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Plan      Plan      `gorm:"type:varchar(16);not null;index:ux_plan_modules,unique,priority:1" json:"plan"`
	Module    Module    `gorm:"type:varchar(32);not null;index:ux_plan_modules,unique,priority:2" json:"module"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Configuration names tracked in config_versions
const (
	ConfigModules     = "modules"
	ConfigPermissions = "permissions"
)

// ConfigVersion tracks the edit version of a process-wide configuration object
type ConfigVersion struct {
	Name      string    `gorm:"primaryKey;type:varchar(32)" json:"name"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
